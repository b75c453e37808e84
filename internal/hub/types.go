package hub

// Result envelopes for vendor SDK operations. Every operation reports
// failures inside its envelope rather than as a Go error, so a single bad
// job never aborts a batch; optional fields carry omitempty and are only
// trusted when the corresponding ok/success flag is set.

// CompileResult is the envelope for a compile job submission. ArtifactPath
// and DownloadError are only populated when the caller waited for
// completion and asked for a download.
type CompileResult struct {
	OK            bool   `json:"ok"`
	JobID         string `json:"job_id,omitempty"`
	JobURL        string `json:"job_url,omitempty"`
	Status        string `json:"status,omitempty"`
	Device        string `json:"device,omitempty"`
	ArtifactPath  string `json:"artifact_path,omitempty"`
	DownloadError string `json:"download_error,omitempty"`
	Error         string `json:"error,omitempty"`
}

// JobStatus is the envelope for a job status check. Running is reported
// defensively: older SDK versions omit it, in which case it stays false.
type JobStatus struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Success bool   `json:"success"`
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}

// Terminal reports whether the job has stopped running.
func (s JobStatus) Terminal() bool {
	return s.Success || !s.Running
}

// DownloadResult is the envelope for an artifact download.
type DownloadResult struct {
	OK    bool   `json:"ok"`
	Path  string `json:"path,omitempty"`
	JobID string `json:"job_id"`
	Error string `json:"error,omitempty"`
}

// JobSummary is one row of a job listing.
type JobSummary struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Name   string `json:"name"`
}

// JobList is the envelope for a job listing.
type JobList struct {
	Count int          `json:"count"`
	Jobs  []JobSummary `json:"jobs"`
	Error string       `json:"error,omitempty"`
}

// TargetDevice is one device from the cloud catalog.
type TargetDevice struct {
	Name string `json:"name"`
	OS   string `json:"os"`
}

// DeviceList is the envelope for a device listing.
type DeviceList struct {
	Count   int            `json:"count"`
	Devices []TargetDevice `json:"devices"`
	Error   string         `json:"error,omitempty"`
}

// DoctorResult reports the health of the local qai-hub installation.
type DoctorResult struct {
	BinaryFound     bool     `json:"qai_hub_found"`
	BinaryPath      string   `json:"qai_hub_path,omitempty"`
	Version         string   `json:"qai_hub_version,omitempty"`
	PythonFound     bool     `json:"python_found"`
	TokenEnvPresent bool     `json:"token_env_present"`
	Notes           []string `json:"notes"`
}

// modelList is the internal envelope for catalog discovery.
type modelList struct {
	Count  int      `json:"count"`
	Models []string `json:"models"`
	Error  string   `json:"error,omitempty"`
}

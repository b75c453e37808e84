package catalog

// DefaultModels are exported when the caller does not name any.
var DefaultModels = []string{
	"stable_diffusion_v2_1",
	"llama_v3_2_3b_instruct",
}

// aliases maps user-friendly spellings (lowercase, hyphenated) to
// qai_hub_models package names (lowercase, underscored).
var aliases = map[string]string{
	// Stable Diffusion variants
	"stable-diffusion-v2.1": "stable_diffusion_v2_1",
	"stable_diffusion_v2.1": "stable_diffusion_v2_1",
	"sd-v2.1":               "stable_diffusion_v2_1",
	"stable-diffusion-v1.5": "stable_diffusion_v1_5",
	"stable_diffusion_v1.5": "stable_diffusion_v1_5",
	"sd-v1.5":               "stable_diffusion_v1_5",
	// Llama variants
	"llama-v3.2-3b-instruct": "llama_v3_2_3b_instruct",
	"llama-3.2-3b":           "llama_v3_2_3b_instruct",
	"llama3.2-3b":            "llama_v3_2_3b_instruct",
	// ControlNet
	"controlnet-canny": "controlnet_canny",
	"controlnet":       "controlnet_canny",
}

// Aliases returns a copy of the built-in alias table, optionally merged with
// extra entries (config-file aliases win over built-ins).
func Aliases(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(aliases)+len(extra))
	for k, v := range aliases {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

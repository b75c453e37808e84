package hub

// Inline python scripts driving the qai_hub SDK. The CLI covers device
// listing only; job submission, status, artifact download, and catalog
// discovery exist solely in the SDK, so we run a venv interpreter with a
// short script that prints exactly one JSON object on stdout. Values are
// passed through sys.argv, never interpolated into the script text.

const submitScript = `
import json, sys
model, device_name, options, job_name = sys.argv[1], sys.argv[2], sys.argv[3], sys.argv[4]
try:
    import qai_hub as hub
    devices = hub.get_devices(name=device_name)
    if not devices:
        print(json.dumps({"ok": False, "error": "No device found: " + device_name}))
        sys.exit(0)
    job = hub.submit_compile_job(model=model, device=devices[0], name=job_name, options=options)
    job_id = job.job_id if hasattr(job, "job_id") else str(job)
    print(json.dumps({
        "ok": True,
        "job_id": job_id,
        "job_url": "https://aihub.qualcomm.com/jobs/" + job_id,
        "status": "submitted",
        "device": device_name,
    }))
except Exception as e:
    print(json.dumps({"ok": False, "error": str(e)}))
`

const statusScript = `
import json, sys
job_id = sys.argv[1]
try:
    import qai_hub as hub
    st = hub.get_job(job_id).get_status()
    print(json.dumps({
        "job_id": job_id,
        "status": st.message,
        "success": bool(st.success),
        "running": bool(getattr(st, "running", False)),
    }))
except Exception as e:
    print(json.dumps({"job_id": job_id, "status": "error", "success": False, "running": False, "error": str(e)}))
`

const downloadScript = `
import json, os, sys
job_id, out_dir = sys.argv[1], sys.argv[2]
try:
    import qai_hub as hub
    job = hub.get_job(job_id)
    st = job.get_status()
    if not st.success:
        print(json.dumps({"ok": False, "job_id": job_id, "error": "Job not done: " + st.message}))
        sys.exit(0)
    os.makedirs(out_dir, exist_ok=True)
    target = job.get_target_model()
    if target is None:
        print(json.dumps({"ok": False, "job_id": job_id, "error": "No target model available"}))
        sys.exit(0)
    out_file = os.path.join(out_dir, "model.bin")
    target.download(out_file)
    print(json.dumps({"ok": True, "path": out_file, "job_id": job_id}))
except Exception as e:
    print(json.dumps({"ok": False, "job_id": job_id, "error": str(e)}))
`

const listJobsScript = `
import json, sys
limit = int(sys.argv[1])
try:
    import qai_hub as hub
    summaries = hub.get_job_summaries(limit=limit, offset=0)
    jobs = []
    for s in summaries:
        jobs.append({
            "job_id": s.job_id if hasattr(s, "job_id") else str(s),
            "status": str(s.status) if hasattr(s, "status") else "unknown",
            "name": s.name if hasattr(s, "name") else "",
        })
    print(json.dumps({"count": len(jobs), "jobs": jobs}))
except Exception as e:
    print(json.dumps({"count": 0, "jobs": [], "error": str(e)}))
`

const listDevicesScript = `
import json, sys
name = sys.argv[1]
try:
    import qai_hub as hub
    devices = hub.get_devices(name=name)
    out = [{"name": d.name, "os": d.os} for d in devices]
    print(json.dumps({"count": len(out), "devices": out}))
except Exception as e:
    print(json.dumps({"count": 0, "devices": [], "error": str(e)}))
`

const discoverScript = `
import json, os, pkgutil
try:
    import qai_hub_models.models as models_pkg
    names = []
    for _, modname, ispkg in pkgutil.iter_modules(models_pkg.__path__):
        if not ispkg:
            continue
        root = os.path.join(models_pkg.__path__[0], modname)
        if os.path.exists(os.path.join(root, "export.py")) or os.path.exists(os.path.join(root, "__init__.py")):
            names.append(modname)
    print(json.dumps({"count": len(names), "models": sorted(names)}))
except ImportError:
    print(json.dumps({"count": 0, "models": [], "error": "qai_hub_models not installed"}))
except Exception as e:
    print(json.dumps({"count": 0, "models": [], "error": str(e)}))
`

package asset

// DefaultAvoidanceFSMConfig is the Direct/Diverting graph driven by avoidance.Controller
// Triggers: Obstacle and DetourComplete are fired by the controller, Tick by Update
const DefaultAvoidanceFSMConfig = `
initial = "Direct"

# --- ROUTE FOLLOWING ---

[states.Direct]
on_enter = [
    { action = "ResumeRoute" },
]
transitions = [
    { trigger = "Obstacle", target = "Diverting" },
]

# --- LOCAL AVOIDANCE ---

[states.Diverting]
on_enter = [
    { action = "CaptureRoute" },
    { action = "SteerAround" },
]
on_exit = [
    { action = "ReleaseAnchor" },
]
transitions = [
    { trigger = "DetourComplete", target = "Direct", actions = [{ action = "NotifyResume", args = { reason = "detour_complete" } }] },
    { trigger = "Obstacle", target = "Diverting", actions = [{ action = "SteerAround" }] },
    { trigger = "Tick", target = "Direct", guard = "Stalled", actions = [{ action = "NotifyResume", args = { reason = "stalled" } }] },
]
`

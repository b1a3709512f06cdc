package metrics

const Namespace = "session_page"

const (
	PageOutcomeSession = "session"
	PageOutcomeLanding = "landing"
)

const (
	LoadStepSession = "session"
	LoadStepLogout  = "logout"
)

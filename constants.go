package main

// Application identity
const (
	AppName  = "vocabquiz"
	AppTitle = "Vocabulary Quiz"
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome    = "/"
	RouteReset   = "/reset"
	RouteError   = "/error"
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)

// Form field constants
const (
	FieldSelectedWord = "word"
	FieldUserInput    = "user_input"
	FieldCorrectWord  = "correct_word"
	FieldPos          = "pos"
)

// Template names
const (
	TemplateQuestion = "index.html"
	TemplateResult   = "result.html"
	TemplateError    = "error.html"
)

// Session backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string

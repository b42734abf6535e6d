package judgeapi

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Rating   int    `json:"rating"`
}

func (p *Profile) IsStudent() bool {
	return p != nil && p.Role == RoleStudent
}

func (p *Profile) IsTeacher() bool {
	return p != nil && p.Role == RoleTeacher
}

type ProblemSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Difficulty string `json:"difficulty"`
	IsPublic   bool   `json:"is_public"`
}

type Example struct {
	Input       string `json:"input_data"`
	Output      string `json:"output_data"`
	Explanation string `json:"explanation,omitempty"`
}

type TestCase struct {
	Input    string `json:"input_data"`
	Output   string `json:"output_data"`
	IsSample bool   `json:"is_sample"`
}

type ProblemDetail struct {
	ProblemSummary
	Description   string    `json:"description"`
	TimeLimitMs   int       `json:"time_limit,omitempty"`
	MemoryLimitMB int       `json:"memory_limit,omitempty"`
	Examples      []Example `json:"examples"`
}

type ProblemCreate struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Difficulty    string     `json:"difficulty"`
	CheckerType   string     `json:"checker_type"`
	TimeLimitMs   int        `json:"time_limit"`
	MemoryLimitMB int        `json:"memory_limit"`
	IsPublic      bool       `json:"is_public"`
	Examples      []Example  `json:"examples"`
	TestCases     []TestCase `json:"test_cases"`
}

type SubmissionRequest struct {
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// StatusAccepted is the only verdict status that counts as success.
const StatusAccepted = "ACCEPTED"

type Verdict struct {
	SubmissionID    string  `json:"submission_id"`
	UserID          string  `json:"user_id,omitempty"`
	ProblemID       string  `json:"problem_id,omitempty"`
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	FinalStatus     string  `json:"final_status"`
	ExecutionTimeMs float64 `json:"execution_time"`
	MemoryUsedBytes float64 `json:"memory_used"`
	Language        string  `json:"language,omitempty"`
	// CreatedAt is kept as sent; the backend omits the zone offset.
	CreatedAt string `json:"created_at,omitempty"`
}

func (v *Verdict) IsAccepted() bool {
	return v != nil && IsAccepted(v.Status)
}

func IsAccepted(status string) bool {
	return status == StatusAccepted
}

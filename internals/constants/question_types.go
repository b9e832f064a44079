package constants

const (
	QuestionTypeSingle   = "single"
	QuestionTypeMultiple = "multiple"
)

// Default attempts policy for new tests: one overwritable submission.
const DefaultAttemptsLimit = 1

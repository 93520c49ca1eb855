package domain

type ValidationError struct {
	Field   string `json:"field" yaml:"field"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

type ValidationResult struct {
	IsValid bool              `json:"is_valid" yaml:"is_valid"`
	Errors  []ValidationError `json:"errors" yaml:"errors"`
}

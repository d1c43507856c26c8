package models

// WeatherSummary is the compact weather context sent along with an assistant question
type WeatherSummary struct {
	City        string `json:"city"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Condition   string `json:"condition"`
}

// AskResult carries either an answer or an error, never both
type AskResult struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Text returns the answer, or the error when there is no answer.
func (r AskResult) Text() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.Error
}

package handler

// envelope is the canonical response body: {success, data?, message?, count?}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func ok(data any) envelope {
	return envelope{Success: true, Data: data}
}

func okCount(data any, count int) envelope {
	return envelope{Success: true, Data: data, Count: &count}
}

func okMessage(message string) envelope {
	return envelope{Success: true, Message: message}
}

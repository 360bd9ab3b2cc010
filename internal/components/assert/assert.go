package assert

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

// Positive panics when n is not greater than zero, name identifies the value in the message.
func Positive(name string, n int) {
	if n <= 0 {
		panic("expected " + name + " to be positive")
	}
}

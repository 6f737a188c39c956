package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// PrintfLogger adapts a Logger to libraries that log through Printf and
// Fatalf, such as goose.
type PrintfLogger struct {
	log Logger
}

func NewPrintfLogger(l Logger) *PrintfLogger {
	if l == nil {
		l = Nop()
	}
	return &PrintfLogger{log: l}
}

func (p *PrintfLogger) Printf(format string, v ...any) {
	p.log.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level and exits, like log.Fatalf.
func (p *PrintfLogger) Fatalf(format string, v ...any) {
	p.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

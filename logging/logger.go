package logging

type Logger interface {
	Init()

	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)
}

type Config struct {
	FilePath string
	Level    string
	Backend  string
}

func NewLogger(cfg *Config) Logger {
	switch cfg.Backend {
	case "zap":
		return newZapLogger(cfg)
	case "zerolog":
		return newZeroLogger(cfg)
	}

	panic("logger not supported: supported loggers: [zap, zerolog]")
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Init()                                                 {}
func (n *nopLogger) Debug(Category, SubCategory, string, map[ExtraKey]any) {}
func (n *nopLogger) Debugf(string, ...any)                                 {}
func (n *nopLogger) Info(Category, SubCategory, string, map[ExtraKey]any)  {}
func (n *nopLogger) Infof(string, ...any)                                  {}
func (n *nopLogger) Warn(Category, SubCategory, string, map[ExtraKey]any)  {}
func (n *nopLogger) Warnf(string, ...any)                                  {}
func (n *nopLogger) Error(Category, SubCategory, string, map[ExtraKey]any) {}
func (n *nopLogger) Errorf(string, ...any)                                 {}
func (n *nopLogger) Fatal(Category, SubCategory, string, map[ExtraKey]any) {}
func (n *nopLogger) Fatalf(string, ...any)                                 {}

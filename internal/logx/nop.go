package logx

// discard drops every entry. Derived loggers are the receiver itself.
type discard struct{}

var nop Logger = discard{}

// Nop returns a Logger that drops everything; used in tests and wherever a logger is optional.
func Nop() Logger { return nop }

func (discard) Debug(string, ...Field) {}
func (discard) Info(string, ...Field)  {}
func (discard) Warn(string, ...Field)  {}
func (discard) Error(string, ...Field) {}
func (d discard) With(...Field) Logger { return d }
func (discard) Sync() error            { return nil }

package agro

// Notifier receives user-facing outcome notifications from the mutation layer
// and the geocoder. The CLI renders them to the terminal; embedding
// applications forward them to whatever surface they have.
type Notifier interface {
	Success(msg string)
	Error(msg, detail string)
}

// LoggerNotifier adapts a Logger into a Notifier.
type LoggerNotifier struct {
	Logger Logger
}

// Success implements Notifier.
func (n *LoggerNotifier) Success(msg string) {
	n.Logger.Info(msg, nil)
}

// Error implements Notifier.
func (n *LoggerNotifier) Error(msg, detail string) {
	n.Logger.Error(msg, map[string]interface{}{"detail": detail})
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

// Success implements Notifier.
func (NopNotifier) Success(msg string) {}

// Error implements Notifier.
func (NopNotifier) Error(msg, detail string) {}

package toast

import (
	"time"

	"github.com/vango-dev/ovan/pkg/overlay"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// EventName marks toast elements so client code can find them.
const EventName = "ovan:toast"

const (
	// DefaultDuration is how long a toast stays open.
	DefaultDuration = 4 * time.Second

	// DefaultExitDelay is how long a closed toast stays mounted for its
	// exit transition.
	DefaultExitDelay = 300 * time.Millisecond
)

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Toast describes one notification.
type Toast struct {
	Level   Type
	Title   string
	Message string

	// ActionLabel and ActionID render an action button when both are set.
	ActionLabel string
	ActionID    string

	// Duration before the toast closes. Zero uses DefaultDuration; a
	// negative duration keeps it open until closed explicitly.
	Duration time.Duration

	// ExitDelay between close and unmount. Zero uses DefaultExitDelay.
	ExitDelay time.Duration
}

// Controller returns the overlay controller rendering t.
func Controller(t Toast) overlay.Controller {
	return func(p overlay.ControllerProps) *vdom.VNode {
		state := "closed"
		if p.IsOpen {
			state = "open"
		}
		role := "status"
		if t.Level == TypeError {
			role = "alert"
		}

		var action *vdom.VNode
		if t.ActionLabel != "" && t.ActionID != "" {
			action = vdom.Button(vdom.Data("action", t.ActionID), vdom.Text(t.ActionLabel))
		}
		var title *vdom.VNode
		if t.Title != "" {
			title = vdom.H2(vdom.Text(t.Title))
		}

		return vdom.Div(
			vdom.Role(role),
			vdom.Data("event", EventName),
			vdom.Data("level", string(t.Level)),
			vdom.Data("state", state),
			title,
			vdom.P(vdom.Text(t.Message)),
			action,
		)
	}
}

// Open shows t and schedules its dismissal. It returns the overlay id.
func Open(cmds overlay.Commands, t Toast, opts ...overlay.OpenOption) (string, error) {
	id, err := cmds.Open(Controller(t), opts...)
	if err != nil {
		return "", err
	}

	d := t.Duration
	if d == 0 {
		d = DefaultDuration
	}
	if d < 0 {
		return id, nil
	}
	exit := t.ExitDelay
	if exit <= 0 {
		exit = DefaultExitDelay
	}

	// Errors are ignored: the toast may already be gone or the provider
	// unmounted.
	time.AfterFunc(d, func() {
		_ = cmds.Close(id)
		time.AfterFunc(exit, func() { _ = cmds.Unmount(id) })
	})
	return id, nil
}

// Show displays a toast notification.
func Show(cmds overlay.Commands, level Type, message string) (string, error) {
	return Open(cmds, Toast{Level: level, Message: message})
}

// Success shows a success toast.
//
//	toast.Success(cmds, "Changes saved!")
func Success(cmds overlay.Commands, message string) (string, error) {
	return Show(cmds, TypeSuccess, message)
}

// Error shows an error toast.
//
//	toast.Error(cmds, "Failed to delete item")
func Error(cmds overlay.Commands, message string) (string, error) {
	return Show(cmds, TypeError, message)
}

// Warning shows a warning toast.
//
//	toast.Warning(cmds, "This action cannot be undone")
func Warning(cmds overlay.Commands, message string) (string, error) {
	return Show(cmds, TypeWarning, message)
}

// Info shows an info toast.
//
//	toast.Info(cmds, "New features available")
func Info(cmds overlay.Commands, message string) (string, error) {
	return Show(cmds, TypeInfo, message)
}

// WithTitle shows a toast with a title and message.
//
//	toast.WithTitle(cmds, toast.TypeSuccess, "Settings", "Your changes have been saved.")
func WithTitle(cmds overlay.Commands, level Type, title, message string) (string, error) {
	return Open(cmds, Toast{Level: level, Title: title, Message: message})
}

// WithAction shows a toast with an action button.
//
//	toast.WithAction(cmds, toast.TypeInfo, "Item deleted", "Undo", "undo")
func WithAction(cmds overlay.Commands, level Type, message, actionLabel, actionID string) (string, error) {
	return Open(cmds, Toast{Level: level, Message: message, ActionLabel: actionLabel, ActionID: actionID})
}

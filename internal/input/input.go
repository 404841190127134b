package input

import "sync"

// Action represents a logical game action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionPause
	ActionBreak
	ActionPlace
	ActionSelect1
	ActionSelect2
	ActionSelect3
	ActionSelect4
	ActionSelect5
	ActionSelect6
	ActionToggleProfiling
	ActionCount // Sentinel value for array sizing
)

// SelectActions lists the block selection actions in slot order.
var SelectActions = []Action{
	ActionSelect1, ActionSelect2, ActionSelect3,
	ActionSelect4, ActionSelect5, ActionSelect6,
}

// Key is a platform key code. The window layer decides the numbering.
type Key int

// Button is a platform mouse button code.
type Button int

// State is the transition reported for a key or button.
type State int

const (
	Release State = iota
	Press
	Repeat
)

// Axis combines a negative and a positive control.
type Axis struct {
	Negative bool
	Positive bool
}

// Value returns -1 or 1 when exactly one side is held. Holding both or
// neither yields no value.
func (a Axis) Value() (float32, bool) {
	if a.Negative == a.Positive {
		return 0, false
	}
	if a.Negative {
		return -1, true
	}
	return 1, true
}

// Manager maps physical keys and buttons to actions and tracks cursor motion.
// Event handlers may run on the window thread while the frame reads state.
type Manager struct {
	mu sync.RWMutex

	// one key can map to multiple actions
	keyToActions    map[Key][]Action
	buttonToActions map[Button][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	haveCursor     bool
	lastX, lastY   float64
	lookDX, lookDY float64
}

func NewManager() *Manager {
	return &Manager{
		keyToActions:    make(map[Key][]Action),
		buttonToActions: make(map[Button][]Action),
	}
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (im *Manager) BindKey(key Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	im.keyToActions[key] = append(im.keyToActions[key], action)
	im.mu.Unlock()
}

// UnbindKey removes all action bindings for a key
func (im *Manager) UnbindKey(key Key) {
	im.mu.Lock()
	delete(im.keyToActions, key)
	im.mu.Unlock()
}

func (im *Manager) BindButton(button Button, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	im.buttonToActions[button] = append(im.buttonToActions[button], action)
	im.mu.Unlock()
}

// HandleKey processes a key event
func (im *Manager) HandleKey(key Key, state State) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.keyToActions[key], state == Press || state == Repeat)
}

// HandleButton processes a mouse button event
func (im *Manager) HandleButton(button Button, state State) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.buttonToActions[button], state == Press)
}

// apply must be called with mu held.
func (im *Manager) apply(actions []Action, pressed bool) {
	for _, act := range actions {
		// detect edges when the event arrives
		if pressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !pressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = pressed
	}
}

// HandleCursor records an absolute cursor position. The first sample after
// ResetCursor only sets the reference point.
func (im *Manager) HandleCursor(x, y float64) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if !im.haveCursor {
		im.lastX, im.lastY = x, y
		im.haveCursor = true
		return
	}
	im.lookDX += x - im.lastX
	im.lookDY += y - im.lastY
	im.lastX, im.lastY = x, y
}

// ResetCursor forgets the last cursor position, e.g. after the cursor was
// released and recaptured.
func (im *Manager) ResetCursor() {
	im.mu.Lock()
	im.haveCursor = false
	im.lookDX, im.lookDY = 0, 0
	im.mu.Unlock()
}

// ConsumeLook returns the accumulated look delta in radians and clears it.
// Moving the cursor right turns right; moving it up looks up.
func (im *Manager) ConsumeLook(sensitivity float32) (yaw, pitch float32) {
	im.mu.Lock()
	dx, dy := im.lookDX, im.lookDY
	im.lookDX, im.lookDY = 0, 0
	im.mu.Unlock()
	return float32(dx) * sensitivity, float32(-dy) * sensitivity
}

// MoveAxes resolves the movement actions into forward, right and up values.
func (im *Manager) MoveAxes() (forward, right, up float32) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	forward, _ = Axis{Negative: im.currentState[ActionMoveBackward], Positive: im.currentState[ActionMoveForward]}.Value()
	right, _ = Axis{Negative: im.currentState[ActionMoveLeft], Positive: im.currentState[ActionMoveRight]}.Value()
	up, _ = Axis{Negative: im.currentState[ActionMoveDown], Positive: im.currentState[ActionMoveUp]}.Value()
	return forward, right, up
}

// PostUpdate must be called at the end of each frame to reset edge flags.
func (im *Manager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
}

// IsActive returns true if the action is currently being held down
func (im *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justReleased[action]
}

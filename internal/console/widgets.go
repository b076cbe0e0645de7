package console

import (
	"sync"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

// Button is a trigger that can be disabled while its action runs.
type Button struct {
	mu       sync.Mutex
	Label    string
	disabled bool
}

func NewButton(label string) *Button {
	return &Button{Label: label}
}

func (b *Button) Disable() {
	b.mu.Lock()
	b.disabled = true
	b.mu.Unlock()
}

func (b *Button) Enable() {
	b.mu.Lock()
	b.disabled = false
	b.mu.Unlock()
}

func (b *Button) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.disabled
}

// Modal is an on-screen dialog.
type Modal struct {
	mu   sync.Mutex
	Name string
	open bool
}

func NewModal(name string) *Modal {
	return &Modal{Name: name}
}

func (m *Modal) Open() {
	m.mu.Lock()
	m.open = true
	m.mu.Unlock()
}

func (m *Modal) Close() {
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
}

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// RequestForm holds what the user typed into the custom-request form.
type RequestForm struct {
	mu     sync.Mutex
	values models.CustomRequest
}

func (f *RequestForm) Values() models.CustomRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *RequestForm) Set(values models.CustomRequest) {
	f.mu.Lock()
	f.values = values
	f.mu.Unlock()
}

func (f *RequestForm) Reset() {
	f.Set(models.CustomRequest{})
}

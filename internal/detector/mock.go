package detector

import (
	"context"
	"fmt"
	"sync"

	"github.com/ayusman/posebridge/internal/dynamic"
	"github.com/ayusman/posebridge/internal/pose"
)

// Call is one method invocation recorded by MockEngine.
type Call struct {
	Target dynamic.Value
	Method string
	Args   []dynamic.Value
}

// Creation is one CreateDetector request recorded by MockEngine.
type Creation struct {
	Name   string
	Config dynamic.Value
}

// MockDetectorValue is the opaque detector value handed out by MockEngine.
type MockDetectorValue struct {
	ID    int
	Model string
}

type mockUtil struct{}

// MockEngine is an in-process Engine for tests. It records every call and
// answers with the pre-configured results.
type MockEngine struct {
	mu         sync.Mutex
	calls      []Call
	creations  []Creation
	createErr  error
	result     dynamic.Value
	pairs      [][2]int
	methodErrs map[string]error
	missing    map[string]bool
}

var _ Engine = (*MockEngine)(nil)

// NewMockEngine creates a new MockEngine whose detectors find no poses.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		result:     []dynamic.Value{},
		methodErrs: make(map[string]error),
		missing:    make(map[string]bool),
	}
}

// SetCreateError makes CreateDetector reject with err.
func (m *MockEngine) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// SetPoses sets the poses estimatePoses resolves to.
func (m *MockEngine) SetPoses(poses []pose.Pose) {
	m.SetRawResult(pose.Encode(poses))
}

// SetRawResult sets the raw value estimatePoses resolves to.
func (m *MockEngine) SetRawResult(v dynamic.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = v
}

// SetAdjacentPairs sets the getAdjacentPairs answer.
func (m *MockEngine) SetAdjacentPairs(pairs [][2]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs = pairs
}

// SetMethodError makes calls to method fail with err.
func (m *MockEngine) SetMethodError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.methodErrs[method] = err
}

// RemoveMethod makes method unknown to the engine.
func (m *MockEngine) RemoveMethod(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missing[method] = true
}

// Calls returns the recorded invocations in order.
func (m *MockEngine) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how many times method was invoked.
func (m *MockEngine) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Creations returns the recorded CreateDetector requests in order.
func (m *MockEngine) Creations() []Creation {
	m.mu.Lock()
	defer m.mu.Unlock()
	creations := make([]Creation, len(m.creations))
	copy(creations, m.creations)
	return creations
}

// CreateDetector records the request and resolves to a MockDetectorValue.
func (m *MockEngine) CreateDetector(name string, config dynamic.Value) dynamic.Promise {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creations = append(m.creations, Creation{Name: name, Config: config})
	if m.createErr != nil {
		return dynamic.Settled{Err: m.createErr}
	}
	return dynamic.Settled{Value: &MockDetectorValue{ID: len(m.creations), Model: name}}
}

// Util returns the mock utility namespace.
func (m *MockEngine) Util() dynamic.Value {
	return mockUtil{}
}

// Invoke records the call and answers it. estimatePoses answers with a promise,
// like the real engine.
func (m *MockEngine) Invoke(ctx context.Context, target dynamic.Value, method string, args ...dynamic.Value) (dynamic.Value, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Target: target, Method: method, Args: args})

	if m.missing[method] {
		return nil, fmt.Errorf("%s: %w", method, dynamic.ErrMethodNotFound)
	}

	switch target.(type) {
	case *MockDetectorValue:
		switch method {
		case methodEstimatePoses, methodReset, methodDispose:
		default:
			return nil, fmt.Errorf("%s: %w", method, dynamic.ErrMethodNotFound)
		}
	case mockUtil:
		if method != methodGetAdjacentPairs {
			return nil, fmt.Errorf("%s: %w", method, dynamic.ErrMethodNotFound)
		}
	default:
		return nil, fmt.Errorf("invoke %s on %T: not an engine value", method, target)
	}

	if err := m.methodErrs[method]; err != nil {
		return nil, err
	}

	switch method {
	case methodEstimatePoses:
		return dynamic.Settled{Value: m.result}, nil
	case methodGetAdjacentPairs:
		out := make([]dynamic.Value, 0, len(m.pairs))
		for _, p := range m.pairs {
			out = append(out, []dynamic.Value{float64(p[0]), float64(p[1])})
		}
		return out, nil
	}
	return dynamic.Undefined, nil
}

package guard

import (
	"testing"

	"github.com/me/hrpulse/internal/session"
	"github.com/me/hrpulse/pkg/model"
)

func TestEvaluate_TruthTable(t *testing.T) {
	user := &model.User{Email: "a@b.com"}

	tests := []struct {
		name string
		in   session.State
		want State
	}{
		{"loading wins over everything", session.State{Loading: true, Authenticated: true, Approved: true, User: user}, StateLoading},
		{"loading unauthenticated", session.State{Loading: true}, StateLoading},
		{"unauthenticated", session.State{}, StateUnauthenticated},
		{"unauthenticated ignores approved flag", session.State{Approved: true}, StateUnauthenticated},
		{"authenticated unapproved", session.State{Authenticated: true, User: user}, StatePending},
		{"authenticated approved", session.State{Authenticated: true, Approved: true, User: user}, StateAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.in); got != tt.want {
				t.Errorf("Evaluate(%+v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	in := session.State{Authenticated: true, Approved: true}
	first := Evaluate(in)
	for i := 0; i < 10; i++ {
		if got := Evaluate(in); got != first {
			t.Fatal("Evaluate must be deterministic for the same input")
		}
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		state State
		want  Decision
	}{
		{StateLoading, Decision{Waiting: true}},
		{StateUnauthenticated, Decision{Redirect: TargetLogin}},
		{StatePending, Decision{Redirect: TargetPending}},
		{StateAllowed, Decision{Allow: true}},
	}

	for _, tt := range tests {
		if got := Decide(tt.state); got != tt.want {
			t.Errorf("Decide(%s) = %+v, want %+v", tt.state, got, tt.want)
		}
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		role model.Role
		cap  Capability
		want bool
	}{
		{model.RoleAdmin, CapApproveUsers, true},
		{model.RoleAdmin, CapViewAllDepartments, true},
		{model.RoleExecutive, CapViewAllDepartments, true},
		{model.RoleExecutive, CapApproveUsers, false},
		{model.RoleManager, CapRunAnalysis, true},
		{model.RoleManager, CapViewAllDepartments, false},
		{model.RoleAnalyst, CapDownloadResults, false},
		{model.RoleViewer, CapViewDashboard, true},
		{model.RoleViewer, CapRunAnalysis, false},
		{model.Role("intern"), CapViewDashboard, false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.cap); got != tt.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

func TestCapabilities_UnknownRoleEmpty(t *testing.T) {
	if caps := Capabilities(model.Role("contractor")); len(caps) != 0 {
		t.Errorf("unknown role must have no capabilities, got %v", caps)
	}
}

package helpers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/kaalsec/internal/domain"
)

type fakeIntegrator struct {
	shell string
}

func (f fakeIntegrator) Install(string, bool) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}

func (f fakeIntegrator) Uninstall(string) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}

func (f fakeIntegrator) Status(string) domain.ShellStatus { return domain.ShellStatus{} }
func (f fakeIntegrator) DetectShell() string              { return f.shell }

func TestDetermineTargetShells(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		detected string
		want     []domain.ShellName
		wantErr  bool
	}{
		{name: "auto detects zsh path", detected: "/usr/bin/zsh", want: []domain.ShellName{domain.ShellZsh}},
		{name: "explicit bash", flag: "BASH", detected: "/bin/zsh", want: []domain.ShellName{domain.ShellBash}},
		{name: "all", flag: "all", want: []domain.ShellName{domain.ShellBash, domain.ShellZsh}},
		{name: "fish rejected", flag: "fish", wantErr: true},
		{name: "undetectable login shell", detected: "/usr/bin/fish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetermineTargetShells(tt.flag, fakeIntegrator{shell: tt.detected})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("shells mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

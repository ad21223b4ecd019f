package commands

import (
	"strings"
	"testing"
)

func TestCommandTree(t *testing.T) {
	root := New()
	for _, name := range []string{
		"login", "register", "logout", "whoami", "stats",
		"list", "recap", "add", "edit", "delete",
		"ui", "info", "version", "completion", "upgrade",
	} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("command %q not registered", name)
		}
	}
	for _, flag := range []string{"debug", "ephemeral"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestAliases(t *testing.T) {
	root := New()
	for alias, want := range map[string]string{
		"rm":     "delete",
		"ls":     "list",
		"signup": "register",
		"report": "recap",
	} {
		cmd, _, err := root.Find([]string{alias})
		if err != nil {
			t.Fatalf("find %q: %v", alias, err)
		}
		if cmd.Name() != want {
			t.Errorf("%q resolved to %q, want %q", alias, cmd.Name(), want)
		}
	}
}

func TestArgsValidation(t *testing.T) {
	root := New()
	tests := map[string]struct {
		cmd     string
		args    []string
		wantErr bool
	}{
		"add needs content":       {cmd: "add", wantErr: true},
		"add joins words":         {cmd: "add", args: []string{"good", "day"}},
		"edit needs content":      {cmd: "edit", args: []string{"id-1"}, wantErr: true},
		"edit id and content":     {cmd: "edit", args: []string{"id-1", "better", "day"}},
		"delete needs id":         {cmd: "delete", wantErr: true},
		"delete takes one id":     {cmd: "delete", args: []string{"a", "b"}, wantErr: true},
		"completion one shell":    {cmd: "completion", args: []string{"zsh"}},
		"completion extra shells": {cmd: "completion", args: []string{"zsh", "fish"}, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tc.cmd})
			if err != nil {
				t.Fatal(err)
			}
			err = cmd.Args(cmd, tc.args)
			if tc.wantErr != (err != nil) {
				t.Errorf("Args(%v) error = %v, wantErr %v", tc.args, err, tc.wantErr)
			}
		})
	}
}

func TestCompletionHint(t *testing.T) {
	if got := completionHint("  a\n  short   one "); got != "a short one" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("é", 60)
	got := completionHint(long)
	if n := len([]rune(got)); n != 40 {
		t.Errorf("hint has %d runes, want 40", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("hint %q not elided", got)
	}
}

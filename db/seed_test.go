package db

import "testing"

func TestParseSeedFile(t *testing.T) {
	doc := []byte(`
users:
  - email: admin@club.fr
    nickname: boss
    password: secret123
    role: admin
  - email: joe@club.fr
    nickname: joe
    password: secret123
`)
	f, err := ParseSeedFile(doc)
	if err != nil {
		t.Fatalf("ParseSeedFile() error = %v", err)
	}
	if len(f.Users) != 2 {
		t.Fatalf("got %d users, want 2", len(f.Users))
	}
	if f.Users[1].Role != "player" {
		t.Errorf("default role = %q, want player", f.Users[1].Role)
	}
}

func TestParseSeedFileRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"missing password": "users:\n  - email: a@b.c\n    nickname: a\n",
		"unknown role":     "users:\n  - email: a@b.c\n    nickname: a\n    password: x\n    role: god\n",
		"not yaml":         "users: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSeedFile([]byte(doc)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

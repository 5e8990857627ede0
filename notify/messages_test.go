package notify

import (
	"context"
	"strings"
	"testing"
)

func TestBroadcastEscapesHTML(t *testing.T) {
	got := Broadcast("score <3> & more")
	want := "📢 <b>Notification</b>\n\n<pre>score &lt;3&gt; &amp; more</pre>"
	if got != want {
		t.Fatalf("Broadcast() = %q, want %q", got, want)
	}
}

func TestMessagesContainFields(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want []string
	}{
		{"user created", UserCreated("joe", "", "player"), []string{"joe", "Email: -", "player"}},
		{"login", Login("<b>x</b>"), []string{"&lt;b&gt;x&lt;/b&gt;"}},
		{"registration", TournamentRegistration("joe", "Open de Noël"), []string{"joe", "<b>Open de Noël</b>"}},
		{"payment", PaymentConfirmed("joe", "Open", "cs_123"), []string{"<code>cs_123</code>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, w := range tt.want {
				if !strings.Contains(tt.msg, w) {
					t.Errorf("%q does not contain %q", tt.msg, w)
				}
			}
		})
	}
}

func TestNopNotifier(t *testing.T) {
	var n Notifier = Nop{}
	if err := n.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("Nop.Notify() error = %v", err)
	}
}

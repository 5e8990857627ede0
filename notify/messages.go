package notify

import (
	"fmt"
	"html"
	"strings"
)

// Broadcast wraps a free text message sent by an administrator.
func Broadcast(message string) string {
	return fmt.Sprintf("📢 <b>Notification</b>\n\n<pre>%s</pre>", html.EscapeString(message))
}

func UserCreated(nickname, email, role string) string {
	return fmt.Sprintf("👤 <b>Nouvel utilisateur</b>\n\nPseudo: %s\nEmail: %s\nRôle: %s",
		html.EscapeString(nickname), html.EscapeString(orDash(email)), html.EscapeString(role))
}

func Login(nickname string) string {
	return fmt.Sprintf("🔑 <b>Connexion</b>\n\n%s vient de se connecter", html.EscapeString(nickname))
}

func TournamentRegistration(nickname, tournament string) string {
	return fmt.Sprintf("📝 <b>Inscription tournoi</b>\n\n%s s'est inscrit à <b>%s</b>",
		html.EscapeString(nickname), html.EscapeString(tournament))
}

func PaymentConfirmed(nickname, tournament, reference string) string {
	return fmt.Sprintf("💶 <b>Paiement reçu</b>\n\n%s a payé <b>%s</b>\nRéférence: <code>%s</code>",
		html.EscapeString(nickname), html.EscapeString(tournament), html.EscapeString(orDash(reference)))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

package main

import (
	"fmt"
	"math/rand"
	"strings"
)

// matchSeed is the transcript seeded when a visitor likes a profile.
// Derived purely from the profile record, no external call.
func matchSeed(p Profile, now int64) []ChatMessage {
	f := p.StrikeFund
	return []ChatMessage{
		{From: FromBot, Text: fmt.Sprintf("Salut ! Merci pour le match ! 😊 Je suis %s et je suis ravi(e) de te rencontrer !", p.Name), Ts: now, Status: StatusDelivered},
		{From: FromBot, Text: fmt.Sprintf("Je lutte pour %s. %s", f.Title, f.Description), Ts: now + 1, Status: StatusDelivered},
		{From: FromBot, Text: fmt.Sprintf("Tu peux nous aider ici : %s", f.URL), Ts: now + 2, Status: StatusDelivered},
	}
}

// visitSeed is the longer transcript used when a chat is opened directly,
// without a swipe. Distinct message set from matchSeed.
func visitSeed(p Profile, now int64) []ChatMessage {
	f := p.StrikeFund
	progress := 0
	if f.TargetAmount > 0 {
		progress = f.CurrentAmount * 100 / f.TargetAmount
	}
	return []ChatMessage{
		{From: FromBot, Text: "Salut ! Merci de passer me voir ✊", Ts: now, Status: StatusDelivered},
		{From: FromBot, Text: fmt.Sprintf("Je lutte pour %s. %s", f.Title, f.Description), Ts: now + 1, Status: StatusDelivered},
		{From: FromBot, Text: fmt.Sprintf("Nous avons déjà récolté %d€ sur %d€ (%d%%) ! Chaque soutien compte énormément ✊", f.CurrentAmount, f.TargetAmount, progress), Ts: now + 2, Status: StatusDelivered},
		{From: FromBot, Text: fmt.Sprintf("🔗 %s", f.URL), Ts: now + 3, Status: StatusDelivered},
	}
}

var defaultReplies = []string{
	"Merci pour ton message ! Notre cause est vraiment importante 😊",
	"C'est super de discuter avec toi ! Tu peux nous soutenir via le lien dans mon profil ✊",
	"Je suis content(e) que tu t'intéresses à notre lutte ! 💪",
	"Notre grève est nécessaire pour défendre nos droits ! 🔥",
}

// botReply picks a canned French answer keyed on the user's message.
func botReply(userMessage string) string {
	m := strings.ToLower(userMessage)
	switch {
	case containsAny(m, "salut", "bonjour", "coucou"):
		return "Salut ! Merci de t'intéresser à notre cause ! 😊"
	case containsAny(m, "cause", "grève", "lutte"):
		return "Notre grève est cruciale pour défendre nos droits ! Chaque soutien compte énormément ✊"
	case containsAny(m, "soutenir", "aider", "don"):
		return "C'est génial que tu veuilles nous soutenir ! Tu peux faire un don via le lien dans mon profil 💪"
	case containsAny(m, "argent", "euro", "donation"):
		return "Chaque euro compte pour nous aider à tenir ! La solidarité c'est la force des travailleurs 💰"
	}
	return defaultReplies[rand.Intn(len(defaultReplies))]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

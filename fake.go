package main

import (
	"fmt"
	"math/rand"
	"strings"
)

// Fallback dataset vocabulary, used when the Gist is unset or unreachable.

var frenchFirstNames = []string{
	"Marie", "Jean", "Sophie", "Pierre", "Camille", "Lucas", "Emma", "Antoine",
	"Léa", "Thomas", "Chloé", "Nicolas", "Manon", "Alexandre", "Julie", "Maxime",
	"Sarah", "Julien", "Laura", "Romain", "Clara", "Baptiste", "Océane", "Quentin",
	"Léonie", "Hugo", "Inès", "Louis", "Zoé", "Gabriel", "Anaïs", "Paul",
}

var frenchSurnames = []string{
	"Martin", "Bernard", "Thomas", "Petit", "Robert", "Richard", "Durand",
	"Dubois", "Moreau", "Laurent", "Simon", "Michel", "Lefebvre", "Leroy",
	"Roux", "David", "Bertrand", "Morel", "Fournier", "Girard", "André",
	"Lefèvre", "Mercier", "Dupont", "Lambert", "Bonnet", "François", "Martinez",
	"Legrand", "Garnier", "Faure", "Rousseau",
}

var strikeCategories = []string{
	"Transport", "Éducation", "Santé", "Environnement", "Social",
	"Culture", "Alimentation", "Commerce", "Technologie", "Autre",
}

var urgencyLevels = []string{"Faible", "Moyenne", "Élevée", "Critique"}

var strikeFundTitles = []string{
	"Fonds de Grève des Transports Parisiens",
	"Soutien aux Enseignants en Lutte",
	"Aide aux Soignants en Grève",
	"Fonds de Solidarité Écologique",
	"Soutien aux Travailleurs Sociaux",
	"Fonds Culturel de Grève",
	"Aide aux Restaurateurs en Lutte",
	"Soutien aux Employés de Commerce",
	"Fonds Technologique de Grève",
	"Solidarité Générale",
}

var strikeDescriptions = []string{
	"Soutenez notre mouvement pour des conditions de travail justes et équitables.",
	"Ensemble, nous luttons pour préserver nos droits et améliorer nos conditions.",
	"Votre soutien nous aide à maintenir la pression pour obtenir des réponses.",
	"Chaque don compte dans notre combat pour la justice sociale.",
	"Rejoignez-nous dans cette lutte pour un avenir meilleur.",
	"Notre grève est légitime et nécessaire pour faire entendre notre voix.",
	"Soutenez notre cause et participez au changement.",
	"Ensemble, nous pouvons faire la différence.",
	"Votre solidarité nous donne la force de continuer.",
	"Luttons ensemble pour nos droits et notre dignité.",
}

var bioTemplates = []string{
	"Passionné(e) par la justice sociale et l'égalité des droits.",
	"Militant(e) engagé(e) pour un monde plus juste et équitable.",
	"Défenseur(se) des droits des travailleurs et de la solidarité.",
	"Activiste convaincu(e) que le changement est possible.",
	"Lutteur(se) infatigable pour la dignité et les droits fondamentaux.",
	"Engagé(e) dans la construction d'une société plus humaine.",
	"Déterminé(e) à faire entendre la voix des sans-voix.",
	"Convaincu(e) que l'union fait la force dans nos combats.",
	"Passionné(e) par l'action collective et la solidarité.",
	"Militant(e) pour un avenir meilleur pour tous et toutes.",
}

var unsplashPortraits = []string{
	"1507003211169-0a1dd7228f2d",
	"1494790108755-2616b612b786",
	"1500648767791-00dcc994a43e",
	"1472099645785-5658abf4ff4e",
}

// France bounding box, approximate.
const (
	franceMinLat = 41.0
	franceMaxLat = 51.5
	franceMinLon = -5.5
	franceMaxLon = 9.5
)

// GenerateFakeProfiles builds count fictional activist profiles. Pure data
// factory: all randomness comes from r, nothing touches the network.
func GenerateFakeProfiles(r *rand.Rand, count int) []Profile {
	profiles := make([]Profile, 0, count)
	for i := 0; i < count; i++ {
		profiles = append(profiles, generateFakeProfile(r))
	}
	return profiles
}

func generateFakeProfile(r *rand.Rand) Profile {
	return Profile{
		ID:         "profile-" + randomToken(r),
		Name:       randomName(r),
		Age:        18 + r.Intn(48), // 18 to 65
		Bio:        bioTemplates[r.Intn(len(bioTemplates))],
		PhotoURL:   randomPhotoURL(r),
		Location:   randomFrenchLocation(r),
		StrikeFund: randomStrikeFund(r),
	}
}

func randomName(r *rand.Rand) string {
	return frenchFirstNames[r.Intn(len(frenchFirstNames))] + " " + frenchSurnames[r.Intn(len(frenchSurnames))]
}

func randomPhotoURL(r *rand.Rand) string {
	img := unsplashPortraits[r.Intn(len(unsplashPortraits))]
	return fmt.Sprintf("https://images.unsplash.com/photo-%s?w=400&h=400&fit=crop&crop=face&auto=format&q=80&ixid=%d", img, r.Intn(1000)+1)
}

func randomFrenchLocation(r *rand.Rand) LatLng {
	return LatLng{
		Lat: franceMinLat + r.Float64()*(franceMaxLat-franceMinLat),
		Lon: franceMinLon + r.Float64()*(franceMaxLon-franceMinLon),
	}
}

func randomStrikeFund(r *rand.Rand) StrikeFund {
	category := strikeCategories[r.Intn(len(strikeCategories))]
	target := 10000 + r.Intn(50000)
	return StrikeFund{
		ID:            "fund-" + randomToken(r),
		URL:           "https://www.helloasso.com/associations/solidarite-greve/campagnes/fonds-" + strings.ToLower(category),
		Title:         strikeFundTitles[r.Intn(len(strikeFundTitles))],
		Description:   strikeDescriptions[r.Intn(len(strikeDescriptions))],
		Category:      category,
		Urgency:       urgencyLevels[r.Intn(len(urgencyLevels))],
		CurrentAmount: r.Intn(target*8/10 + 1), // up to 80% of target
		TargetAmount:  target,
	}
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomToken(r *rand.Rand) string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = tokenAlphabet[r.Intn(len(tokenAlphabet))]
	}
	return string(b)
}

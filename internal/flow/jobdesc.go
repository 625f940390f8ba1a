package flow

import "github.com/harmos/intakebot/internal/models"

// Scripted texts that live in the flow rather than the i18n table: the
// per-position job descriptions rendered with the typing effect, and the
// default song suggestions shown in the music picker.

type jobDescription struct {
	fr string
	en string
}

var jobDescriptions = map[models.PositionType]jobDescription{
	models.PositionTech: {
		fr: "> OPPORTUNITÉ STAGE TECH\nCHEZ HARMOS\nNous construisons l'avenir de la création musicale.\n\n[INFO] Ce dont nous avons besoin :\n> Développement de fonctionnalités\n> Participation à l'évolution de la plateforme\n> Passion pour la tech et le gaming\n\n[INFO] Profil recherché :\n> Étudiant en informatique\n> Créatif et autonome\n> Mentalité startup",
		en: "> TECH INTERNSHIP OPPORTUNITY\nAT HARMOS\nWe are building the future of music creation.\n\n[INFO] What we need:\n> Feature development\n> Participation in platform evolution\n> Passion for tech and gaming\n\n[INFO] Profile sought:\n> Computer science student\n> Creative and autonomous\n> Startup mindset",
	},
	models.PositionDesign: {
		fr: "> OPPORTUNITÉ STAGE DESIGN\nCHEZ HARMOS\nNous construisons l'avenir de la création musicale.\n\n[INFO] Ce dont nous avons besoin :\n> Conception d'interfaces\n> Création de visuels et d'expériences immersives\n> Sensibilité à l'univers ARMOS\n\n[INFO] Profil recherché :\n> Étudiant en design graphique / UI/UX\n> Créatif et autonome\n> Mentalité startup",
		en: "> DESIGN INTERNSHIP OPPORTUNITY\nAT HARMOS\nWe are building the future of music creation.\n\n[INFO] What we need:\n> Interface design\n> Creation of visuals and immersive experiences\n> Sensitivity to the ARMOS universe\n\n[INFO] Profile sought:\n> Graphic design / UI/UX student\n> Creative and autonomous\n> Startup mindset",
	},
	models.PositionCommunication: {
		fr: "> OPPORTUNITÉ STAGE COMMUNICATION\nCHEZ HARMOS\nNous construisons l'avenir de la création musicale.\n\n[INFO] Ce dont nous avons besoin :\n> Création de contenu\n> Animation réseaux sociaux\n> Campagnes de communication\n\n[INFO] Profil recherché :\n> Étudiant en marketing ou communication\n> Curieux des nouvelles tendances\n> Mentalité startup",
		en: "> COMMUNICATION INTERNSHIP OPPORTUNITY\nAT HARMOS\nWe are building the future of music creation.\n\n[INFO] What we need:\n> Content creation\n> Social media management\n> Communication campaigns\n\n[INFO] Profile sought:\n> Marketing or communication student\n> Curious about new trends\n> Startup mindset",
	},
	models.PositionBusiness: {
		fr: "> OPPORTUNITÉ STAGE BUSINESS\nCHEZ HARMOS\nNous construisons l'avenir de la création musicale.\n\n[INFO] Ce dont nous avons besoin :\n> Stratégie\n> Analyse marché\n> Soutien opérations\n\n[INFO] Profil recherché :\n> Étudiant en école de commerce\n> Motivé par l'univers startup et musique\n> Mentalité startup",
		en: "> BUSINESS INTERNSHIP OPPORTUNITY\nAT HARMOS\nWe are building the future of music creation.\n\n[INFO] What we need:\n> Strategy\n> Market analysis\n> Operations support\n\n[INFO] Profile sought:\n> Business school student\n> Motivated by the startup and music universe\n> Startup mindset",
	},
	models.PositionOther: {
		fr: "> OPPORTUNITÉ STAGE\nCHEZ HARMOS\nNous construisons l'avenir de la création musicale.\n\n[INFO] Ce dont nous avons besoin :\n> Profil motivé\n> Envie de découvrir ARMOS\n> Mentalité startup",
		en: "> INTERNSHIP OPPORTUNITY\nAT HARMOS\nWe are building the future of music creation.\n\n[INFO] What we need:\n> Motivated profile\n> Desire to discover ARMOS\n> Startup mindset",
	},
}

// JobDescription returns the scripted typing-effect text for a position in
// the given language.
func JobDescription(position models.PositionType, lang models.Language) string {
	d := jobDescriptions[position]
	if lang == models.LanguageEN {
		return d.en
	}
	return d.fr
}

// DefaultSuggestions returns the popular-song list preloaded into the music
// picker before any catalog search.
func DefaultSuggestions() []models.SongCandidate {
	return []models.SongCandidate{
		{Title: "Blinding Lights", Artist: "The Weeknd", Genre: "Pop"},
		{Title: "Bohemian Rhapsody", Artist: "Queen", Genre: "Rock"},
		{Title: "Shape of You", Artist: "Ed Sheeran", Genre: "Pop"},
		{Title: "Billie Jean", Artist: "Michael Jackson", Genre: "Pop"},
		{Title: "Hotel California", Artist: "Eagles", Genre: "Rock"},
		{Title: "Someone Like You", Artist: "Adele", Genre: "Pop"},
		{Title: "Watermelon Sugar", Artist: "Harry Styles", Genre: "Pop"},
		{Title: "Stairway to Heaven", Artist: "Led Zeppelin", Genre: "Rock"},
		{Title: "Bad Guy", Artist: "Billie Eilish", Genre: "Pop"},
		{Title: "Imagine", Artist: "John Lennon", Genre: "Rock"},
		{Title: "Levitating", Artist: "Dua Lipa", Genre: "Pop"},
		{Title: "Sweet Child O' Mine", Artist: "Guns N' Roses", Genre: "Rock"},
	}
}

// Package i18n provides the localized string tables for the intake chat.
//
// Lookup is a pure function over a closed key set. An unknown key is a
// programming error, not a runtime failure: it is logged loudly and
// mitigated by returning the key itself so the candidate never sees a blank
// message.
package i18n

import (
	"log/slog"
	"strings"

	"github.com/harmos/intakebot/internal/models"
)

// Key identifies one localized string.
type Key string

// Translation keys. The set is closed: every key the flow or the widgets can
// request is enumerated here.
const (
	KeyWelcome                         Key = "welcome"
	KeyStartPrompt                     Key = "startPrompt"
	KeyVideoIntro                      Key = "videoIntro"
	KeyVideoWatchPrompt                Key = "videoWatchPrompt"
	KeyJobDescriptionIntro             Key = "jobDescriptionIntro"
	KeyInterestedButton                Key = "interestedButton"
	KeyNamePrompt                      Key = "namePrompt"
	KeyInvalidNamePrompt               Key = "invalidNamePrompt"
	KeyEmailPrompt                     Key = "emailPrompt"
	KeyInvalidEmailPrompt              Key = "invalidEmailPrompt"
	KeyAgePrompt                       Key = "agePrompt"
	KeyInvalidAgePrompt                Key = "invalidAgePrompt"
	KeySchoolPrompt                    Key = "schoolPrompt"
	KeyInvalidSchoolPrompt             Key = "invalidSchoolPrompt"
	KeyStudyYearPrompt                 Key = "studyYearPrompt"
	KeyInvalidStudyYearPrompt          Key = "invalidStudyYearPrompt"
	KeyInternshipDurationPrompt        Key = "internshipDurationPrompt"
	KeyInvalidInternshipDurationPrompt Key = "invalidInternshipDurationPrompt"
	KeyPositionTypePrompt              Key = "positionTypePrompt"
	KeyDesignOption                    Key = "designOption"
	KeyCommunicationOption             Key = "communicationOption"
	KeyTechOption                      Key = "techOption"
	KeyBusinessOption                  Key = "businessOption"
	KeyOtherOption                     Key = "otherOption"
	KeyMotivationPrompt                Key = "motivationPrompt"
	KeyInvalidMotivationPrompt         Key = "invalidMotivationPrompt"
	KeyMusicIntro                      Key = "musicIntro"
	KeyMusicPrompt                     Key = "musicPrompt"
	KeyFreeContentPrompt               Key = "freeContentPrompt"
	KeyCandidatureSuccess              Key = "candidatureSuccess"
	KeyCandidatureError                Key = "candidatureError"
	KeyInputPlaceholder                Key = "inputPlaceholder"
	KeySubmitting                      Key = "submitting"
	KeyFreeContentTitle                Key = "freeContentTitle"
	KeyFreeContentDescription          Key = "freeContentDescription"
	KeyYourMessage                     Key = "yourMessage"
	KeyMessagePlaceholder              Key = "messagePlaceholder"
	KeyDragDropFiles                   Key = "dragDropFiles"
	KeyDragDropDescription             Key = "dragDropDescription"
	KeySelectedFiles                   Key = "selectedFiles"
	KeyReadyToSend                     Key = "readyToSend"
	KeyUnknownType                     Key = "unknownType"
	KeyUploadInProgress                Key = "uploadInProgress"
	KeyAddContentToSend                Key = "addContentToSend"
	KeySendProfile                     Key = "sendProfile"
)

type entry struct {
	fr string
	en string
}

var table = map[Key]entry{
	KeyWelcome: {
		fr: "Hola! Bienvenue chez Harmos.",
		en: "Hello! Welcome to Harmos.",
	},
	KeyStartPrompt: {
		fr: "Tapez **Commencer** pour regarder la vidéo de présentation et voir si ça match !!",
		en: "Type **Start** to watch the presentation video and see if it matches!!",
	},
	KeyVideoIntro: {
		fr: "Voici une courte vidéo sur Harmos 🎬",
		en: "Here is a short video about Harmos 🎬",
	},
	KeyVideoWatchPrompt: {
		fr: "Tapez \"vu\" quand vous avez fini de regarder la vidéo pour continuer.",
		en: "Type \"seen\" when you have finished watching the video to continue.",
	},
	KeyJobDescriptionIntro: {
		fr: "Maintenant, laissez-moi vous montrer la description du poste",
		en: "Now, let me show you the job description",
	},
	KeyInterestedButton: {
		fr: "Je veux postuler",
		en: "I want to apply",
	},
	KeyNamePrompt: {
		fr: "Parfait ! Commençons par quelques informations de base.\n\nQuel est votre prénom ?",
		en: "Perfect! Let's start with some basic information.\n\nWhat is your first name?",
	},
	KeyInvalidNamePrompt: {
		fr: "Veuillez entrer un prénom valide (au moins 2 caractères).",
		en: "Please enter a valid first name (at least 2 characters).",
	},
	KeyEmailPrompt: {
		fr: "Enchanté {name} ! Maintenant, quelle est votre adresse email ?",
		en: "Nice to meet you, {name}! Now, what is your email address?",
	},
	KeyInvalidEmailPrompt: {
		fr: "Veuillez entrer une adresse email valide (ex: nom@exemple.com).",
		en: "Please enter a valid email address (e.g., name@example.com).",
	},
	KeyAgePrompt: {
		fr: "Quel est ton âge ?",
		en: "What is your age?",
	},
	KeyInvalidAgePrompt: {
		fr: "Veuillez entrer un âge valide.",
		en: "Please enter a valid age.",
	},
	KeySchoolPrompt: {
		fr: "Dans quelle école ou formation étudies-tu ?",
		en: "Which school or program are you studying at?",
	},
	KeyInvalidSchoolPrompt: {
		fr: "Veuillez entrer une école ou formation valide.",
		en: "Please enter a valid school or program.",
	},
	KeyStudyYearPrompt: {
		fr: "En quelle année d'étude es-tu ? (ex: 1ère année, 2ème année, Master...)",
		en: "What year of study are you in? (e.g., 1st year, 2nd year, Master's...)",
	},
	KeyInvalidStudyYearPrompt: {
		fr: "Veuillez entrer une année d'étude valide.",
		en: "Please enter a valid year of study.",
	},
	KeyInternshipDurationPrompt: {
		fr: "Quelle est la durée de stage souhaitée et tes dates disponibles ?",
		en: "What is your desired internship duration and your available dates?",
	},
	KeyInvalidInternshipDurationPrompt: {
		fr: "Veuillez entrer des informations valides sur la durée et les dates de stage.",
		en: "Please enter valid information about internship duration and dates.",
	},
	KeyPositionTypePrompt: {
		fr: "Quel type de poste recherches-tu ?",
		en: "What type of position are you looking for?",
	},
	KeyDesignOption: {
		fr: "Design",
		en: "Design",
	},
	KeyCommunicationOption: {
		fr: "Communication",
		en: "Communication",
	},
	KeyTechOption: {
		fr: "Tech",
		en: "Tech",
	},
	KeyBusinessOption: {
		fr: "Business",
		en: "Business",
	},
	KeyOtherOption: {
		fr: "Autre",
		en: "Other",
	},
	KeyMotivationPrompt: {
		fr: "Quelle est ta motivation pour rejoindre Harmos en tant que stagiaire ?",
		en: "What is your motivation to join Harmos as an intern?",
	},
	KeyInvalidMotivationPrompt: {
		fr: "Veuillez entrer une motivation valide.",
		en: "Please enter a valid motivation.",
	},
	KeyMusicIntro: {
		fr: "Découvrons votre univers musical ! La musique en dit long sur votre personnalité et votre créativité.",
		en: "Let's discover your musical universe! Music says a lot about your personality and creativity.",
	},
	KeyMusicPrompt: {
		fr: "Sélectionnez vos 3 chansons préférées (vous pouvez rechercher ou choisir parmi les suggestions) :",
		en: "Select your 3 favorite songs (you can search or choose from the suggestions):",
	},
	KeyFreeContentPrompt: {
		fr: "C'est maintenant votre moment ! Partagez tout ce qui vous représente en tant que candidat.",
		en: "This is your moment! Share everything that represents you as a candidate.",
	},
	KeyCandidatureSuccess: {
		fr: "Merci d'avoir postulé pour un stage chez HARMOS ! Nous te contacterons très vite.",
		en: "Thank you for applying for an internship at HARMOS! We will contact you very soon.",
	},
	KeyCandidatureError: {
		fr: "Une erreur est survenue lors de l'envoi de votre candidature. Veuillez réessayer.",
		en: "An error occurred while sending your application. Please try again.",
	},
	KeyInputPlaceholder: {
		fr: "Écrire un message",
		en: "Write a message",
	},
	KeySubmitting: {
		fr: "Envoi de votre candidature en cours...",
		en: "Submitting your application...",
	},
	KeyFreeContentTitle: {
		fr: "Espace libre du candidat",
		en: "Candidate Free Space",
	},
	KeyFreeContentDescription: {
		fr: "Partagez tout ce que vous voulez : liens GitHub, CV, vidéos démo, projets, ou tout autre élément qui vous représente.",
		en: "Share anything you want: GitHub links, CV, demo videos, projects, or any other element that represents you.",
	},
	KeyYourMessage: {
		fr: "Votre message :",
		en: "Your message:",
	},
	KeyMessagePlaceholder: {
		fr: "Collez vos liens GitHub, décrivez vos projets, partagez votre vision...",
		en: "Paste your GitHub links, describe your projects, share your vision...",
	},
	KeyDragDropFiles: {
		fr: "Glissez-déposez vos fichiers ici",
		en: "Drag and drop your files here",
	},
	KeyDragDropDescription: {
		fr: "CV, vidéos, images, documents... Aucune restriction de format",
		en: "CV, videos, images, documents... No format restrictions",
	},
	KeySelectedFiles: {
		fr: "Fichiers sélectionnés :",
		en: "Selected files:",
	},
	KeyReadyToSend: {
		fr: "✓ Prêt à envoyer",
		en: "✓ Ready to send",
	},
	KeyUnknownType: {
		fr: "Type inconnu",
		en: "Unknown type",
	},
	KeyUploadInProgress: {
		fr: "Upload en cours...",
		en: "Upload in progress...",
	},
	KeyAddContentToSend: {
		fr: "Ajoutez du contenu pour envoyer",
		en: "Add content to send",
	},
	KeySendProfile: {
		fr: "Envoyer mon profil",
		en: "Send my profile",
	},
}

// Get returns the localized string for key in the given language, applying
// {placeholder} substitutions. Unknown keys are logged and returned verbatim
// as a user-safe fallback.
func Get(key Key, lang models.Language, replacements map[string]string) string {
	e, ok := table[key]
	if !ok {
		slog.Error("i18n.Get: unknown translation key", "key", key, "language", lang)
		return string(key)
	}
	text := e.fr
	if lang == models.LanguageEN {
		text = e.en
	}
	for placeholder, value := range replacements {
		text = strings.ReplaceAll(text, "{"+placeholder+"}", value)
	}
	return text
}

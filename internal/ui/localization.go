package ui

import (
	"fyne.io/fyne/v2/lang"
	"golang.org/x/text/language"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyModel1Title        = "model1_title"
	KeyModel2Title        = "model2_title"
	KeySelectDate         = "select_date"
	KeySubmit             = "submit"
	KeySubmitModel2       = "submit_model2"
	KeyAddGame            = "add_game"
	KeySelectGame         = "select_game"
	KeyGameLabel          = "game_label"
	KeyHoursLabel         = "hours_label"
	KeyPredictedCount     = "predicted_count"
	KeyPrice              = "price"
	KeyRatingRatio        = "rating_ratio"
	KeyGenres             = "genres"
	KeyTags               = "tags"
	KeyNoRecommendations  = "no_recommendations"
	KeyWakeServices       = "wake_services"
	KeyServicesAwake      = "services_awake"
	KeyServicesPartial    = "services_partial"
	KeyErrorSendingData   = "error_sending_data"
	KeyPleaseWait         = "please_wait"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyModel1URL          = "model1_url"
	KeyModel2URL          = "model2_url"
	KeyWakeURLs           = "wake_urls"
	KeyCatalogPath        = "catalog_path"
	KeyRequestTimeout     = "request_timeout"
	KeyBannerDuration     = "banner_duration"
	KeyMetricsAddr        = "metrics_addr"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeyReveal             = "reveal"
	KeySettingsSaved      = "settings_saved"
	KeyRestartRequired    = "restart_required"
	KeyInvalidHours       = "invalid_hours"
	KeyErrorOpeningFile   = "error_opening_file"
	KeyCatalogGames       = "catalog_games"
	KeySessionLabel       = "session_label"
	KeySecondsPlaceholder = "seconds_placeholder"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// Tag returns the current language as a BCP 47 tag for number formatting
func (l *Localization) Tag() language.Tag {
	return LanguageTag(l.currentLanguage)
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// LanguageTag maps a settings language code to a tag. Unknown codes and
// "system" resolve through the OS locale, falling back to English.
func LanguageTag(code string) language.Tag {
	if code == "" || code == "system" {
		code = systemLanguage()
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.English
	}
	return tag
}

// systemLanguage returns the OS language if it is translated, else "en"
func systemLanguage() string {
	tag, err := language.Parse(string(lang.SystemLocale()))
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	switch code := base.String(); code {
	case "en", "ru", "pt":
		return code
	default:
		return "en"
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Game System",
		KeyModel1Title:        "Model 1 - Player Count Predictor",
		KeyModel2Title:        "Model 2 - Game Recommender",
		KeySelectDate:         "Select a date",
		KeySubmit:             "Submit",
		KeySubmitModel2:       "Submit to Model 2",
		KeyAddGame:            "Add another game",
		KeySelectGame:         "Select a game",
		KeyGameLabel:          "Select Game %d",
		KeyHoursLabel:         "Hours Played %d",
		KeyPredictedCount:     "Predicted player count for %s: %s",
		KeyPrice:              "Price",
		KeyRatingRatio:        "Rating Ratio",
		KeyGenres:             "Genres",
		KeyTags:               "Tags",
		KeyNoRecommendations:  "No recommendations returned",
		KeyWakeServices:       "Wake services",
		KeyServicesAwake:      "Services are awake",
		KeyServicesPartial:    "%d of %d services answered",
		KeyErrorSendingData:   "Error sending data",
		KeyPleaseWait:         "Please wait...",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyModel1URL:          "Player Count URL",
		KeyModel2URL:          "Recommendations URL",
		KeyWakeURLs:           "Services to Wake (one per line)",
		KeyCatalogPath:        "Game Catalog (CSV)",
		KeyRequestTimeout:     "Request Timeout (s)",
		KeyBannerDuration:     "Wake Banner Duration (s)",
		KeyMetricsAddr:        "Metrics Address",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeyReveal:             "Reveal",
		KeySettingsSaved:      "Settings saved successfully!",
		KeyRestartRequired:    "Some changes take effect after restart",
		KeyInvalidHours:       "Hours must be a whole number ≥ 0",
		KeyErrorOpeningFile:   "Error opening file",
		KeyCatalogGames:       "%d games in catalog",
		KeySessionLabel:       "Session",
		KeySecondsPlaceholder: "seconds",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Игровая система",
		KeyModel1Title:        "Модель 1 - прогноз числа игроков",
		KeyModel2Title:        "Модель 2 - рекомендации игр",
		KeySelectDate:         "Выберите дату",
		KeySubmit:             "Отправить",
		KeySubmitModel2:       "Отправить в модель 2",
		KeyAddGame:            "Добавить игру",
		KeySelectGame:         "Выберите игру",
		KeyGameLabel:          "Игра %d",
		KeyHoursLabel:         "Часов сыграно %d",
		KeyPredictedCount:     "Прогноз числа игроков на %s: %s",
		KeyPrice:              "Цена",
		KeyRatingRatio:        "Доля положительных отзывов",
		KeyGenres:             "Жанры",
		KeyTags:               "Метки",
		KeyNoRecommendations:  "Рекомендаций нет",
		KeyWakeServices:       "Разбудить сервисы",
		KeyServicesAwake:      "Сервисы запущены",
		KeyServicesPartial:    "Ответили %d из %d сервисов",
		KeyErrorSendingData:   "Ошибка отправки данных",
		KeyPleaseWait:         "Подождите...",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyModel1URL:          "URL прогноза",
		KeyModel2URL:          "URL рекомендаций",
		KeyWakeURLs:           "Сервисы для пробуждения (по одному в строке)",
		KeyCatalogPath:        "Каталог игр (CSV)",
		KeyRequestTimeout:     "Тайм-аут запроса (с)",
		KeyBannerDuration:     "Показ баннера (с)",
		KeyMetricsAddr:        "Адрес метрик",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeyReveal:             "Показать",
		KeySettingsSaved:      "Настройки успешно сохранены!",
		KeyRestartRequired:    "Часть изменений вступит в силу после перезапуска",
		KeyInvalidHours:       "Часы должны быть целым числом ≥ 0",
		KeyErrorOpeningFile:   "Ошибка открытия файла",
		KeyCatalogGames:       "Игр в каталоге: %d",
		KeySessionLabel:       "Сессия",
		KeySecondsPlaceholder: "секунды",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Game System",
		KeyModel1Title:        "Modelo 1 - Previsão de Jogadores",
		KeyModel2Title:        "Modelo 2 - Recomendação de Jogos",
		KeySelectDate:         "Selecione uma data",
		KeySubmit:             "Enviar",
		KeySubmitModel2:       "Enviar ao Modelo 2",
		KeyAddGame:            "Adicionar outro jogo",
		KeySelectGame:         "Selecione um jogo",
		KeyGameLabel:          "Jogo %d",
		KeyHoursLabel:         "Horas Jogadas %d",
		KeyPredictedCount:     "Previsão de jogadores para %s: %s",
		KeyPrice:              "Preço",
		KeyRatingRatio:        "Taxa de Avaliação",
		KeyGenres:             "Gêneros",
		KeyTags:               "Tags",
		KeyNoRecommendations:  "Nenhuma recomendação retornada",
		KeyWakeServices:       "Acordar serviços",
		KeyServicesAwake:      "Serviços ativos",
		KeyServicesPartial:    "%d de %d serviços responderam",
		KeyErrorSendingData:   "Erro ao enviar dados",
		KeyPleaseWait:         "Aguarde...",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyModel1URL:          "URL de Previsão",
		KeyModel2URL:          "URL de Recomendações",
		KeyWakeURLs:           "Serviços para Acordar (um por linha)",
		KeyCatalogPath:        "Catálogo de Jogos (CSV)",
		KeyRequestTimeout:     "Tempo Limite (s)",
		KeyBannerDuration:     "Duração do Aviso (s)",
		KeyMetricsAddr:        "Endereço de Métricas",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyBrowse:             "Navegar",
		KeyReveal:             "Mostrar",
		KeySettingsSaved:      "Configurações salvas com sucesso!",
		KeyRestartRequired:    "Algumas mudanças exigem reinício",
		KeyInvalidHours:       "Horas devem ser um número inteiro ≥ 0",
		KeyErrorOpeningFile:   "Erro ao abrir arquivo",
		KeyCatalogGames:       "%d jogos no catálogo",
		KeySessionLabel:       "Sessão",
		KeySecondsPlaceholder: "segundos",
	}
}

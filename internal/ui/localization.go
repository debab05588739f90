package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle             = "app_title"
	KeyImport               = "import"
	KeyImportFolder         = "import_folder"
	KeyConvert              = "convert"
	KeyDownload             = "download"
	KeyDownloadAll          = "download_all"
	KeyOpen                 = "open"
	KeyClearAll             = "clear_all"
	KeyDelete               = "delete"
	KeySettings             = "settings"
	KeyFile                 = "file"
	KeyLanguage             = "language"
	KeyTheme                = "theme"
	KeyThemeSystem          = "theme_system"
	KeyThemeLight           = "theme_light"
	KeyThemeDark            = "theme_dark"
	KeyExportDirectory      = "export_directory"
	KeyOfficeBinary         = "office_binary"
	KeyOfficeAutoDetect     = "office_auto_detect"
	KeyBackgroundConversion = "background_conversion"
	KeyMaxParallel          = "max_parallel"
	KeyRevealAfterDownload  = "reveal_after_download"
	KeyLogLevel             = "log_level"
	KeyRestartRequired      = "restart_required"
	KeySave                 = "save"
	KeyCancel               = "cancel"
	KeyBrowse               = "browse"
	KeySettingsSaved        = "settings_saved"
	KeySelectFormat         = "select_format"
	KeyNoConversions        = "no_conversions"
	KeyDropHint             = "drop_hint"
	KeyStatusNotConverted   = "status_not_converted"
	KeyStatusConverted      = "status_converted"
	KeyStatusFailed         = "status_failed"
	KeyConverting           = "converting"
	KeyConvertedCount       = "converted_count"
	KeyNoFilesConverted     = "no_files_converted"
	KeyNoFilesSelected      = "no_files_selected"
	KeyTooManyFiles         = "too_many_files"
	KeyUnsupportedFile      = "unsupported_file"
	KeySelectFormatFirst    = "select_format_first"
	KeyConversionFailed     = "conversion_failed"
	KeyConvertFirst         = "convert_first"
	KeyDownloadedTo         = "downloaded_to"
	KeyDownloadFailed       = "download_failed"
	KeyConfirmClearAll      = "confirm_clear_all"
	KeyErrorOpeningFile     = "error_opening_file"
	KeyBusy                 = "busy"
	KeyWarning              = "warning"
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
		// Use system locale - simplified to English for now
		lang = "en"
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

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:             "File Converter",
		KeyImport:               "Import",
		KeyImportFolder:         "Import Folder…",
		KeyConvert:              "Convert",
		KeyDownload:             "Download",
		KeyOpen:                 "Open",
		KeyDownloadAll:          "Download All",
		KeyClearAll:             "Clear All",
		KeyDelete:               "Delete",
		KeySettings:             "Settings",
		KeyFile:                 "File",
		KeyLanguage:             "Language",
		KeyTheme:                "Theme",
		KeyThemeSystem:          "System",
		KeyThemeLight:           "Light",
		KeyThemeDark:            "Dark",
		KeyExportDirectory:      "Download Directory",
		KeyOfficeBinary:         "Office Suite (soffice)",
		KeyOfficeAutoDetect:     "Auto-detect",
		KeyBackgroundConversion: "Convert files in parallel",
		KeyMaxParallel:          "Max Parallel Conversions",
		KeyRevealAfterDownload:  "Show files after download",
		KeyLogLevel:             "Log Level",
		KeyRestartRequired:      "Conversion and logging changes apply after restart.",
		KeySave:                 "Save",
		KeyCancel:               "Cancel",
		KeyBrowse:               "Browse",
		KeySettingsSaved:        "Settings saved successfully!",
		KeySelectFormat:         "Convert to…",
		KeyNoConversions:        "No conversions",
		KeyDropHint:             "Drop up to 10 files here or click Import",
		KeyStatusNotConverted:   "Not converted",
		KeyStatusConverted:      "Converted",
		KeyStatusFailed:         "Failed",
		KeyConverting:           "Converting…",
		KeyConvertedCount:       "%d file(s) converted",
		KeyNoFilesConverted:     "No files were converted. Pick an output format that differs from the file's own format.",
		KeyNoFilesSelected:      "No files selected",
		KeyTooManyFiles:         "You can import at most 10 files at once",
		KeyUnsupportedFile:      "Unsupported file type",
		KeySelectFormatFirst:    "Select an output format for at least one file",
		KeyConversionFailed:     "Could not convert %s",
		KeyConvertFirst:         "Convert the file before downloading it",
		KeyDownloadedTo:         "Saved to %s",
		KeyDownloadFailed:       "Download failed",
		KeyConfirmClearAll:      "Remove all files and converted results?",
		KeyErrorOpeningFile:     "Error opening file",
		KeyBusy:                 "A conversion is already running",
		KeyWarning:              "Warning",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:             "Конвертер файлов",
		KeyImport:               "Импорт",
		KeyImportFolder:         "Импорт папки…",
		KeyConvert:              "Конвертировать",
		KeyDownload:             "Скачать",
		KeyOpen:                 "Открыть",
		KeyDownloadAll:          "Скачать все",
		KeyClearAll:             "Очистить",
		KeyDelete:               "Удалить",
		KeySettings:             "Настройки",
		KeyFile:                 "Файл",
		KeyLanguage:             "Язык",
		KeyTheme:                "Тема",
		KeyThemeSystem:          "Системная",
		KeyThemeLight:           "Светлая",
		KeyThemeDark:            "Тёмная",
		KeyExportDirectory:      "Папка загрузки",
		KeyOfficeBinary:         "Офисный пакет (soffice)",
		KeyOfficeAutoDetect:     "Автоопределение",
		KeyBackgroundConversion: "Конвертировать параллельно",
		KeyMaxParallel:          "Макс. параллельных",
		KeyRevealAfterDownload:  "Показывать файлы после загрузки",
		KeyLogLevel:             "Уровень журнала",
		KeyRestartRequired:      "Изменения конвертации и журнала применятся после перезапуска.",
		KeySave:                 "Сохранить",
		KeyCancel:               "Отмена",
		KeyBrowse:               "Обзор",
		KeySettingsSaved:        "Настройки успешно сохранены!",
		KeySelectFormat:         "Формат…",
		KeyNoConversions:        "Нет преобразований",
		KeyDropHint:             "Перетащите до 10 файлов сюда или нажмите «Импорт»",
		KeyStatusNotConverted:   "Не конвертирован",
		KeyStatusConverted:      "Конвертирован",
		KeyStatusFailed:         "Ошибка",
		KeyConverting:           "Конвертация…",
		KeyConvertedCount:       "Конвертировано файлов: %d",
		KeyNoFilesConverted:     "Ни один файл не конвертирован. Выберите формат, отличный от исходного.",
		KeyNoFilesSelected:      "Файлы не выбраны",
		KeyTooManyFiles:         "За один раз можно импортировать не более 10 файлов",
		KeyUnsupportedFile:      "Неподдерживаемый тип файла",
		KeySelectFormatFirst:    "Выберите выходной формат хотя бы для одного файла",
		KeyConversionFailed:     "Не удалось конвертировать %s",
		KeyConvertFirst:         "Сначала конвертируйте файл",
		KeyDownloadedTo:         "Сохранено в %s",
		KeyDownloadFailed:       "Ошибка загрузки",
		KeyConfirmClearAll:      "Удалить все файлы и результаты?",
		KeyErrorOpeningFile:     "Ошибка открытия файла",
		KeyBusy:                 "Конвертация уже выполняется",
		KeyWarning:              "Предупреждение",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:             "Conversor de Arquivos",
		KeyImport:               "Importar",
		KeyImportFolder:         "Importar Pasta…",
		KeyConvert:              "Converter",
		KeyDownload:             "Baixar",
		KeyOpen:                 "Abrir",
		KeyDownloadAll:          "Baixar Todos",
		KeyClearAll:             "Limpar Tudo",
		KeyDelete:               "Excluir",
		KeySettings:             "Configurações",
		KeyFile:                 "Arquivo",
		KeyLanguage:             "Idioma",
		KeyTheme:                "Tema",
		KeyThemeSystem:          "Sistema",
		KeyThemeLight:           "Claro",
		KeyThemeDark:            "Escuro",
		KeyExportDirectory:      "Diretório de Download",
		KeyOfficeBinary:         "Suíte Office (soffice)",
		KeyOfficeAutoDetect:     "Detectar automaticamente",
		KeyBackgroundConversion: "Converter arquivos em paralelo",
		KeyMaxParallel:          "Máx. Conversões Paralelas",
		KeyRevealAfterDownload:  "Mostrar arquivos após baixar",
		KeyLogLevel:             "Nível de Log",
		KeyRestartRequired:      "Alterações de conversão e log valem após reiniciar.",
		KeySave:                 "Salvar",
		KeyCancel:               "Cancelar",
		KeyBrowse:               "Navegar",
		KeySettingsSaved:        "Configurações salvas com sucesso!",
		KeySelectFormat:         "Converter para…",
		KeyNoConversions:        "Sem conversões",
		KeyDropHint:             "Arraste até 10 arquivos aqui ou clique em Importar",
		KeyStatusNotConverted:   "Não convertido",
		KeyStatusConverted:      "Convertido",
		KeyStatusFailed:         "Falhou",
		KeyConverting:           "Convertendo…",
		KeyConvertedCount:       "%d arquivo(s) convertido(s)",
		KeyNoFilesConverted:     "Nenhum arquivo foi convertido. Escolha um formato diferente do original.",
		KeyNoFilesSelected:      "Nenhum arquivo selecionado",
		KeyTooManyFiles:         "Você pode importar no máximo 10 arquivos por vez",
		KeyUnsupportedFile:      "Tipo de arquivo não suportado",
		KeySelectFormatFirst:    "Selecione um formato de saída para pelo menos um arquivo",
		KeyConversionFailed:     "Não foi possível converter %s",
		KeyConvertFirst:         "Converta o arquivo antes de baixá-lo",
		KeyDownloadedTo:         "Salvo em %s",
		KeyDownloadFailed:       "Falha ao baixar",
		KeyConfirmClearAll:      "Remover todos os arquivos e resultados?",
		KeyErrorOpeningFile:     "Erro ao abrir arquivo",
		KeyBusy:                 "Uma conversão já está em andamento",
		KeyWarning:              "Aviso",
	}
}

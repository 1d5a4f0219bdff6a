package i18n

var defaultMessages = map[string]map[string]string{
	"pt": {
		ErrKeyInvalidRequest:     "Requisição inválida",
		ErrKeyInvalidRequestBody: "Corpo da requisição inválido",
		ErrKeyInternalError:      "Ocorreu um erro inesperado",
		ErrKeyUnauthorized:       "Não autorizado",
		ErrKeyInvalidCredentials: "Email ou senha inválidos",
		ErrKeyUserExists:         "Usuário já existe com este email",
		ErrKeyAPIKeyRequired:     "Chave de API é obrigatória",
		ErrKeyInvalidAPIKey:      "Chave de API inválida",
		ErrKeyForbidden:          "Acesso negado",
		ErrKeyNotFound:           "Não encontrado",
		ErrKeyRateLimitExceeded:  "Muitas requisições, tente novamente mais tarde",
		ErrKeyConflict:           "Conflito",
		ErrKeyInvalidToken:       "Token inválido ou expirado",
		ErrKeyTokenRequired:      "Token de acesso requerido",
		ErrKeyRefreshRequired:    "Refresh token requerido",
		ErrKeyTimeout:            "Tempo limite da requisição excedido",

		ErrKeyInvalidVehicleType:  "Tipo de veículo inválido. Use: carros, motos ou caminhoes",
		ErrKeyInvalidCode:         "Código FIPE inválido",
		ErrKeyInvalidTable:        "Tabela de referência inválida",
		ErrKeyInvalidBrand:        "Código da marca inválido",
		ErrKeyQueryTooShort:       "Termo de busca deve ter pelo menos 3 caracteres",
		ErrKeyUpstreamUnavailable: "Erro ao consultar o serviço FIPE",

		ErrKeyFavoriteExists:     "Veículo já está nos favoritos",
		ErrKeyFavoriteNotFound:   "Favorito não encontrado",
		ErrKeyFavoriteLimit:      "Limite de favoritos atingido",
		ErrKeyCompareTooFew:      "Selecione pelo menos 2 favoritos para comparar",
		ErrKeyCompareTooMany:     "Muitos favoritos para comparar",
		ErrKeyHistoryNotFound:    "Item do histórico não encontrado",
		ErrKeyInvalidHistoryType: "Tipo de histórico inválido",
		ErrKeyFileNotFound:       "Arquivo não encontrado",
		ErrKeyFileForbidden:      "Acesso negado a este arquivo",
		ErrKeyFileType:           "Tipo de arquivo não permitido",
		ErrKeyFileTooLarge:       "Arquivo muito grande",
		ErrKeyTooManyFiles:       "Muitos arquivos enviados",
		ErrKeyNoFile:             "Nenhum arquivo enviado",

		SuccessKeyTablesFound:     "%d tabelas de referência encontradas",
		SuccessKeyBrandsFound:     "%d marcas encontradas",
		SuccessKeyModelsFound:     "%d modelos encontrados",
		SuccessKeyPriceFound:      "Preço consultado com sucesso",
		SuccessKeySearchCompleted: "%d veículos encontrados",
		SuccessKeyCacheCleared:    "Cache limpo com sucesso",
		SuccessKeyLogin:           "Login realizado com sucesso",
		SuccessKeyRegister:        "Usuário registrado com sucesso",
		SuccessKeyRefreshed:       "Token renovado com sucesso",
		SuccessKeyLogout:          "Logout realizado com sucesso",
		SuccessKeyFavoriteAdded:   "Veículo adicionado aos favoritos",
		SuccessKeyFavoriteUpdated: "Favorito atualizado com sucesso",
		SuccessKeyFavoriteRemoved: "Favorito removido com sucesso",
		SuccessKeyComparison:      "Comparação realizada entre %d veículos",
		SuccessKeyHistoryAdded:    "Consulta adicionada ao histórico",
		SuccessKeyHistoryRemoved:  "Item removido do histórico",
		SuccessKeyHistoryCleared:  "%d itens removidos do histórico",
		SuccessKeyFileUploaded:    "Arquivo enviado com sucesso",
		SuccessKeyFilesUploaded:   "%d arquivos enviados com sucesso",
		SuccessKeyFileDeleted:     "Arquivo removido com sucesso",
	},
	"en": {
		ErrKeyInvalidRequest:     "Invalid request",
		ErrKeyInvalidRequestBody: "Invalid request body",
		ErrKeyInternalError:      "An unexpected error occurred",
		ErrKeyUnauthorized:       "Unauthorized",
		ErrKeyInvalidCredentials: "Invalid email or password",
		ErrKeyUserExists:         "A user with this email already exists",
		ErrKeyAPIKeyRequired:     "API key is required",
		ErrKeyInvalidAPIKey:      "Invalid API key",
		ErrKeyForbidden:          "Forbidden",
		ErrKeyNotFound:           "Not found",
		ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
		ErrKeyConflict:           "Conflict",
		ErrKeyInvalidToken:       "Invalid or expired token",
		ErrKeyTokenRequired:      "Authentication token is required",
		ErrKeyRefreshRequired:    "Refresh token is required",
		ErrKeyTimeout:            "Request timed out",

		ErrKeyInvalidVehicleType:  "Invalid vehicle type. Use: carros, motos or caminhoes",
		ErrKeyInvalidCode:         "Invalid FIPE code",
		ErrKeyInvalidTable:        "Invalid reference table",
		ErrKeyInvalidBrand:        "Invalid brand code",
		ErrKeyQueryTooShort:       "Search term must have at least 3 characters",
		ErrKeyUpstreamUnavailable: "The FIPE service could not be reached",

		ErrKeyFavoriteExists:     "Vehicle is already a favorite",
		ErrKeyFavoriteNotFound:   "Favorite not found",
		ErrKeyFavoriteLimit:      "Favorites limit reached",
		ErrKeyCompareTooFew:      "Select at least 2 favorites to compare",
		ErrKeyCompareTooMany:     "Too many favorites to compare",
		ErrKeyHistoryNotFound:    "History item not found",
		ErrKeyInvalidHistoryType: "Invalid history type",
		ErrKeyFileNotFound:       "File not found",
		ErrKeyFileForbidden:      "Access to this file is denied",
		ErrKeyFileType:           "File type not allowed",
		ErrKeyFileTooLarge:       "File too large",
		ErrKeyTooManyFiles:       "Too many files",
		ErrKeyNoFile:             "No file provided",

		SuccessKeyTablesFound:     "%d reference tables found",
		SuccessKeyBrandsFound:     "%d brands found",
		SuccessKeyModelsFound:     "%d models found",
		SuccessKeyPriceFound:      "Price retrieved successfully",
		SuccessKeySearchCompleted: "%d vehicles found",
		SuccessKeyCacheCleared:    "Cache cleared successfully",
		SuccessKeyLogin:           "Logged in successfully",
		SuccessKeyRegister:        "User registered successfully",
		SuccessKeyRefreshed:       "Token refreshed successfully",
		SuccessKeyLogout:          "Logged out successfully",
		SuccessKeyFavoriteAdded:   "Vehicle added to favorites",
		SuccessKeyFavoriteUpdated: "Favorite updated successfully",
		SuccessKeyFavoriteRemoved: "Favorite removed successfully",
		SuccessKeyComparison:      "Compared %d vehicles",
		SuccessKeyHistoryAdded:    "Lookup added to history",
		SuccessKeyHistoryRemoved:  "History item removed",
		SuccessKeyHistoryCleared:  "%d history items removed",
		SuccessKeyFileUploaded:    "File uploaded successfully",
		SuccessKeyFilesUploaded:   "%d files uploaded successfully",
		SuccessKeyFileDeleted:     "File deleted successfully",
	},
	"nl": {
		ErrKeyInvalidRequest:     "Ongeldig verzoek",
		ErrKeyInvalidRequestBody: "Ongeldige aanvraag body",
		ErrKeyInternalError:      "Er is een onverwachte fout opgetreden",
		ErrKeyUnauthorized:       "Niet geautoriseerd",
		ErrKeyInvalidCredentials: "Ongeldig e-mailadres of wachtwoord",
		ErrKeyUserExists:         "Er bestaat al een gebruiker met dit e-mailadres",
		ErrKeyAPIKeyRequired:     "API-sleutel is vereist",
		ErrKeyInvalidAPIKey:      "Ongeldige API-sleutel",
		ErrKeyForbidden:          "Verboden",
		ErrKeyNotFound:           "Niet gevonden",
		ErrKeyRateLimitExceeded:  "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyConflict:           "Conflict",
		ErrKeyInvalidToken:       "Ongeldig of verlopen token",
		ErrKeyTokenRequired:      "Authenticatietoken is vereist",
		ErrKeyRefreshRequired:    "Refresh-token is vereist",
		ErrKeyTimeout:            "Time-out van het verzoek",

		ErrKeyInvalidVehicleType:  "Ongeldig voertuigtype. Gebruik: carros, motos of caminhoes",
		ErrKeyInvalidCode:         "Ongeldige FIPE-code",
		ErrKeyInvalidTable:        "Ongeldige referentietabel",
		ErrKeyInvalidBrand:        "Ongeldige merkcode",
		ErrKeyQueryTooShort:       "Zoekterm moet minstens 3 tekens bevatten",
		ErrKeyUpstreamUnavailable: "De FIPE-dienst is niet bereikbaar",

		ErrKeyFavoriteExists:     "Voertuig is al een favoriet",
		ErrKeyFavoriteNotFound:   "Favoriet niet gevonden",
		ErrKeyFavoriteLimit:      "Limiet voor favorieten bereikt",
		ErrKeyCompareTooFew:      "Selecteer minstens 2 favorieten om te vergelijken",
		ErrKeyCompareTooMany:     "Te veel favorieten om te vergelijken",
		ErrKeyHistoryNotFound:    "Geschiedenisitem niet gevonden",
		ErrKeyInvalidHistoryType: "Ongeldig geschiedenistype",
		ErrKeyFileNotFound:       "Bestand niet gevonden",
		ErrKeyFileForbidden:      "Toegang tot dit bestand geweigerd",
		ErrKeyFileType:           "Bestandstype niet toegestaan",
		ErrKeyFileTooLarge:       "Bestand te groot",
		ErrKeyTooManyFiles:       "Te veel bestanden",
		ErrKeyNoFile:             "Geen bestand meegestuurd",

		SuccessKeyTablesFound:     "%d referentietabellen gevonden",
		SuccessKeyBrandsFound:     "%d merken gevonden",
		SuccessKeyModelsFound:     "%d modellen gevonden",
		SuccessKeyPriceFound:      "Prijs succesvol opgehaald",
		SuccessKeySearchCompleted: "%d voertuigen gevonden",
		SuccessKeyCacheCleared:    "Cache succesvol geleegd",
		SuccessKeyLogin:           "Succesvol ingelogd",
		SuccessKeyRegister:        "Gebruiker succesvol geregistreerd",
		SuccessKeyRefreshed:       "Token succesvol vernieuwd",
		SuccessKeyLogout:          "Succesvol uitgelogd",
		SuccessKeyFavoriteAdded:   "Voertuig toegevoegd aan favorieten",
		SuccessKeyFavoriteUpdated: "Favoriet succesvol bijgewerkt",
		SuccessKeyFavoriteRemoved: "Favoriet succesvol verwijderd",
		SuccessKeyComparison:      "%d voertuigen vergeleken",
		SuccessKeyHistoryAdded:    "Opzoeking toegevoegd aan geschiedenis",
		SuccessKeyHistoryRemoved:  "Geschiedenisitem verwijderd",
		SuccessKeyHistoryCleared:  "%d geschiedenisitems verwijderd",
		SuccessKeyFileUploaded:    "Bestand succesvol geüpload",
		SuccessKeyFilesUploaded:   "%d bestanden succesvol geüpload",
		SuccessKeyFileDeleted:     "Bestand succesvol verwijderd",
	},
}

package i18n

var ptBRMessages = map[Code]string{
	CodeCharacteristicOutOfRange: "{{.Characteristic}} deve estar entre {{.Min}} e {{.Max}}, recebido {{.Value}}.",
	CodeCharacteristicUnknown:    "Característica desconhecida {{.Characteristic}}.",
	CodeCharacteristicRepeated:   "{{.Characteristic}} foi informada mais de uma vez ({{.Names}}).",
	CodeSkillEntryDuplicate:      "A perícia {{.Name}} já existe em {{.Category}}.",
	CodeSkillEntryNotFound:       "A perícia {{.Name}} não existe em {{.Category}}.",
	CodeSkillEntryInvalidField:   "Campo de perícia desconhecido {{.Field}}.",
	CodeSkillEntryEmptyName:      "Categoria e nome da perícia são obrigatórios.",
	CodeNationalityNotFound:      "Nacionalidade {{.ID}} não encontrada.",
	CodeClassNotFound:            "Classe {{.ID}} não encontrada.",
	CodeModifierInvalid:          "Modificador de {{.Source}} é inválido.",
	CodeNotFound:                 "O recurso solicitado não foi encontrado.",
}

package catalogimporter

type nationalityPayload struct {
	SystemID      string          `json:"system_id"`
	SystemVersion string          `json:"system_version"`
	Source        string          `json:"source"`
	Items         []recordPayload `json:"items"`
}

type classPayload struct {
	SystemID      string          `json:"system_id"`
	SystemVersion string          `json:"system_version"`
	Source        string          `json:"source"`
	Items         []recordPayload `json:"items"`
}

// recordPayload is the shared item shape of nationalities.json and
// classes.json.
type recordPayload struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Characteristics []characteristicPayload `json:"characteristics"`
	Skills          []skillPayload          `json:"skills"`
}

type characteristicPayload struct {
	Characteristic string `json:"characteristic"`
	Delta          int    `json:"delta"`
	Exclusive      bool   `json:"exclusive"`
}

type skillPayload struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Delta     int    `json:"delta"`
	Exclusive bool   `json:"exclusive"`
}

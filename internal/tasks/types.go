package tasks

type GenerateRequest struct {
	Brief *string `json:"brief"`
}

type GenerateResponse struct {
	Created int          `json:"created"`
	Tasks   []StoredTask `json:"tasks"`
}

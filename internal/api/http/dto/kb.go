package dto

type CreateEntryRequest struct {
	Question string  `json:"question" binding:"required"`
	Answer   string  `json:"answer" binding:"required"`
	Category *string `json:"category"`
}

type UpdateEntryRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
}

type EntryResponse struct {
	ID        int64   `json:"id"`
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Category  *string `json:"category"`
	CreatedAt string  `json:"created_at"`
}

type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Count   int             `json:"count"`
}

package common

type Pagination struct {
	Total int `json:"total"`
}

// SearchResponse is a page of a collection with the size of the whole
// filtered collection.
type SearchResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewSearchResponse(data interface{}, total int) *SearchResponse {
	return &SearchResponse{
		Data: data,
		Pagination: Pagination{
			Total: total,
		},
	}
}

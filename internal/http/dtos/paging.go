package dtos

import "github.com/just-nibble/versioncontrol/internal/repository"

// APIPagingDto holds the list parameters shared by collection endpoints.
type APIPagingDto struct {
	Limit     int
	Offset    int
	Sort      string
	Direction string
}

// Query turns the paging parameters and filters into a store query.
func (p APIPagingDto) Query(conditions map[string]any) repository.Query {
	return repository.Query{
		Conditions: conditions,
		Limit:      p.Limit,
		Offset:     p.Offset,
		OrderBy:    p.Sort,
		Desc:       p.Direction == "desc",
	}
}

type PagingInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ListResponse wraps one page of a collection.
type ListResponse[T any] struct {
	Items    []T        `json:"items"`
	PageInfo PagingInfo `json:"page_info"`
}

func NewListResponse[T any](items []T, paging APIPagingDto) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items: items,
		PageInfo: PagingInfo{
			Limit:  paging.Limit,
			Offset: paging.Offset,
			Count:  len(items),
		},
	}
}

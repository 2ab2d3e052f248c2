package v1

import (
	"context"
	"fmt"
	"strconv"

	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/maxloyalty/v1/common"
)

// Resource is the conventional REST collection at /api/{name}.
type Resource[T listmanager.Record] struct {
	transport *Transport
	name      string
}

func NewResource[T listmanager.Record](t *Transport, name string) *Resource[T] {
	return &Resource[T]{transport: t, name: name}
}

func (this *Resource[T]) Name() string { return this.name }

func (this *Resource[T]) path() string { return "/api/" + this.name }

func (this *Resource[T]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", this.path(), id)
}

// List fetches one page. A zero query asks for the whole collection.
func (this *Resource[T]) List(ctx context.Context, q listmanager.Query) (listmanager.Page[T], error) {
	query := map[string]string{}
	if q.Page > 0 {
		query["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		query["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Search != "" {
		query["search"] = q.Search
	}

	resp, err := this.transport.Get(ctx, this.path(), query)
	if err != nil {
		return listmanager.Page[T]{}, err
	}

	items, total, err := common.DecodeList[T](resp.Data)
	if err != nil {
		return listmanager.Page[T]{}, fmt.Errorf("decode %s list: %w", this.name, err)
	}
	return listmanager.Page[T]{Items: items, Total: total}, nil
}

func (this *Resource[T]) Create(ctx context.Context, record T, uploads []listmanager.Upload) (T, error) {
	resp, err := this.transport.PostMultipart(ctx, this.path(), record, uploads)
	if err != nil {
		return record, err
	}
	return this.decodeSaved(resp, record)
}

// Update sends the record, id included, to PUT /api/{name}.
func (this *Resource[T]) Update(ctx context.Context, record T, uploads []listmanager.Upload) (T, error) {
	resp, err := this.transport.PutMultipart(ctx, this.path(), record, uploads)
	if err != nil {
		return record, err
	}
	return this.decodeSaved(resp, record)
}

// decodeSaved falls back to the submitted record when the server answers
// without a body.
func (this *Resource[T]) decodeSaved(resp *Response, submitted T) (T, error) {
	saved, ok, err := common.DecodeRecord[T](resp.Data)
	if err != nil {
		return submitted, fmt.Errorf("decode %s record: %w", this.name, err)
	}
	if !ok {
		return submitted, nil
	}
	return saved, nil
}

func (this *Resource[T]) Delete(ctx context.Context, id int) error {
	_, err := this.transport.Delete(ctx, this.itemPath(id))
	return err
}

func (this *Resource[T]) Patch(ctx context.Context, id int, changes map[string]any) error {
	_, err := this.transport.PatchJSON(ctx, this.itemPath(id), changes)
	return err
}

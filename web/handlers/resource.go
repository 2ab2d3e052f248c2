package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/store"
	web "maxloyalty.com/backoffice/web/common"
)

// maxUploadMemory bounds the multipart form kept in memory (32 MB).
const maxUploadMemory = 32 << 20

// ResourceEndpoint serves one entity collection at /api/{name}.
type ResourceEndpoint[T listmanager.Record] struct {
	desc  console.Descriptor
	store store.Store[T]
	log   *slog.Logger
}

func RegisterResource[T listmanager.Record](r *gin.RouterGroup, desc console.Descriptor, s store.Store[T], log *slog.Logger) {
	endpoint := &ResourceEndpoint[T]{desc: desc, store: s, log: log}
	path := "/" + desc.Name
	r.GET(path, endpoint.List)
	r.POST(path, endpoint.Create)
	r.PUT(path, endpoint.Update)
	r.DELETE(path+"/:id", endpoint.Delete)
	r.PATCH(path+"/:id", endpoint.Patch)
}

type ListParams struct {
	Page   int    `form:"page" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0"`
	Search string `form:"search"`
}

func (this *ResourceEndpoint[T]) List(c *gin.Context) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	items, total, err := this.store.List(c.Request.Context(), store.Query{
		Search: params.Search,
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		this.fail(c, err)
		return
	}
	for i := range items {
		items[i] = console.ClearSecrets(this.desc, items[i])
	}

	c.JSON(http.StatusOK, web.NewSearchResponse(items, total))
}

func (this *ResourceEndpoint[T]) Create(c *gin.Context) {
	record, _, err := this.bindForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}
	// the id is always assigned by the store
	_ = listmanager.SetField(&record, "id", "0")

	if violations := listmanager.Validate(record, listmanager.ModeCreate, nil); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatViolations(violations)))
		return
	}

	saved, err := this.store.Create(c.Request.Context(), record)
	if err != nil {
		this.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(console.ClearSecrets(this.desc, saved)))
}

// Update replaces the record named by the id field of the form. Blank
// secrets and file fields without a new file keep their stored value.
func (this *ResourceEndpoint[T]) Update(c *gin.Context) {
	record, uploaded, err := this.bindForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}
	if record.GetID() <= 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Falta el id del registro"))
		return
	}

	ctx := c.Request.Context()
	existing, err := this.store.Get(ctx, record.GetID())
	if err != nil {
		this.fail(c, err)
		return
	}
	for _, name := range this.desc.Secret {
		if v, _ := listmanager.GetField(record, name); v == "" {
			keepField(&record, existing, name)
		}
	}
	for _, name := range listmanager.UploadFields(record) {
		if !uploaded[name] {
			keepField(&record, existing, name)
		}
	}

	if violations := listmanager.Validate(record, listmanager.ModeEdit, this.desc.OptionalOnEdit); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatViolations(violations)))
		return
	}

	saved, err := this.store.Update(ctx, record)
	if err != nil {
		this.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(console.ClearSecrets(this.desc, saved)))
}

func (this *ResourceEndpoint[T]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := this.store.Delete(c.Request.Context(), id); err != nil {
		this.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

// Patch applies a JSON partial update, e.g. {"active": false}. Unknown
// fields reject the whole request.
func (this *ResourceEndpoint[T]) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	delete(changes, "id")
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("No hay cambios que aplicar"))
		return
	}

	ctx := c.Request.Context()
	existing, err := this.store.Get(ctx, id)
	if err != nil {
		this.fail(c, err)
		return
	}
	patched := existing
	for name, value := range changes {
		if err := listmanager.SetField(&patched, name, listmanager.PatchValue(value)); err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
			return
		}
	}
	if violations := listmanager.Validate(patched, listmanager.ModeEdit, this.desc.OptionalOnEdit); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatViolations(violations)))
		return
	}

	saved, err := this.store.Patch(ctx, id, changes)
	if err != nil {
		this.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(console.ClearSecrets(this.desc, saved)))
}

// bindForm reads a multipart record. Files are stored base64 encoded in
// their field; uploaded lists the file fields that carried a file.
func (this *ResourceEndpoint[T]) bindForm(c *gin.Context) (T, map[string]bool, error) {
	var record T
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		return record, nil, fmt.Errorf("formulario inválido: %w", err)
	}
	form := c.Request.MultipartForm

	for name, values := range form.Value {
		if len(values) == 0 {
			continue
		}
		if err := listmanager.SetField(&record, name, values[0]); err != nil {
			return record, nil, err
		}
	}

	uploaded := map[string]bool{}
	for _, name := range listmanager.UploadFields(record) {
		files := form.File[name]
		if len(files) == 0 {
			continue
		}
		encoded, err := encodeFile(files[0])
		if err != nil {
			return record, nil, fmt.Errorf("archivo %s: %w", name, err)
		}
		if err := listmanager.SetField(&record, name, encoded); err != nil {
			return record, nil, err
		}
		uploaded[name] = true
	}
	return record, uploaded, nil
}

func (this *ResourceEndpoint[T]) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Registro no encontrado"))
		return
	}
	_ = c.Error(err)
	this.log.ErrorContext(c.Request.Context(), "store", "resource", this.desc.Name, "error", err)
	c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
}

func encodeFile(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func keepField[T any](record *T, existing T, name string) {
	if v, ok := listmanager.GetField(existing, name); ok {
		_ = listmanager.SetField(record, name, v)
	}
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Id inválido"))
		return 0, false
	}
	return id, true
}

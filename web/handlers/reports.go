package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"maxloyalty.com/backoffice/report"
	"maxloyalty.com/backoffice/store"
	"maxloyalty.com/backoffice/web/middlewares"
	web "maxloyalty.com/backoffice/web/common"
)

type ReportsEndpoint struct {
	transactions store.Transactions
	company      string
	log          *slog.Logger
}

func RegisterReports(r *gin.RouterGroup, txs store.Transactions, company string, log *slog.Logger) {
	endpoint := &ReportsEndpoint{transactions: txs, company: company, log: log}
	r.GET("/reportes/transacciones", endpoint.Transactions)
	r.GET("/reportes/transacciones/exportar", endpoint.Export)
}

type PeriodParams struct {
	Desde web.DateOnly `form:"desde"`
	Hasta web.DateOnly `form:"hasta"`
}

type ExportParams struct {
	PeriodParams
	Formato string `form:"formato" binding:"omitempty,oneof=pdf xlsx"`
	Agrupar string `form:"agrupar"`
}

func (this *ReportsEndpoint) load(c *gin.Context, p PeriodParams) ([]report.Transaction, bool) {
	if p.Desde.IsZero() || p.Hasta.IsZero() {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Las fechas desde y hasta son obligatorias"))
		return nil, false
	}
	if p.Hasta.Before(p.Desde.Time) {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("La fecha final es anterior a la inicial"))
		return nil, false
	}
	txs, err := this.transactions.Between(c.Request.Context(), p.Desde.Time, p.Hasta.Time)
	if err != nil {
		_ = c.Error(err)
		this.log.ErrorContext(c.Request.Context(), "load transactions", "error", err)
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return nil, false
	}
	return txs, true
}

func (this *ReportsEndpoint) Transactions(c *gin.Context) {
	var params PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	txs, ok := this.load(c, params)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(txs, len(txs)))
}

// Export renders the period as a PDF (default) or XLSX download.
// agrupar is a comma separated list of summary keys, e.g. canal,tipo_combustible.
func (this *ReportsEndpoint) Export(c *gin.Context) {
	var params ExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	format, err := report.ParseFormat(params.Formato)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}
	keys, err := report.KeysByName(strings.Split(params.Agrupar, ","))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	txs, ok := this.load(c, params.PeriodParams)
	if !ok {
		return
	}

	doc := report.Document{
		Meta: report.Metadata{
			Title:       report.DefaultTitle,
			Company:     this.company,
			From:        params.Desde.Time,
			To:          params.Hasta.Time,
			GeneratedAt: time.Now(),
		},
		Transactions: txs,
		GroupKeys:    keys,
	}
	if identity, ok := middlewares.Identity(c); ok {
		doc.Meta.GeneratedBy = identity.UserName
	}

	data, err := report.Render(doc, format)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName(doc.Meta, format)))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// Health answers the liveness probe outside /api.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opengs/ocr2sheet"
	"github.com/opengs/ocr2sheet/emit"
	"github.com/opengs/ocr2sheet/extract"
	"github.com/opengs/ocr2sheet/report"
	sourcefs "github.com/opengs/ocr2sheet/source/fs"
	"github.com/opengs/ocr2sheet/table"
	"github.com/opengs/ocr2sheet/workbook"
	"github.com/psanford/memfs"
	"github.com/spf13/cobra"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>ocr2sheet</title>
</head>
<body>
<h1>Image to spreadsheet code</h1>
<form method="post" action="/convert" enctype="multipart/form-data">
<p><input type="file" name="images" accept="image/*" multiple required></p>
<p>
<select name="dialect" required>
<option value="" selected disabled>Select language</option>
{{range .Dialects}}<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.Label}}</option>
{{end}}</select>
</p>
<p>
<button type="submit">Convert</button>
<button type="submit" formaction="/convert/xlsx">Download XLSX</button>
</p>
</form>
{{if .Error}}<p><strong>{{.Error}}</strong></p>{{end}}
{{.Report}}
</body>
</html>
`))

type server struct {
	engine    *ocr2sheet.Engine
	extractor extract.Extractor
	logger    *slog.Logger
}

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server",
	Long:  "Start HTTP server with upload form and REST API for converting images",
	RunE: func(cmd *cobra.Command, args []string) error {
		ocrProvider, destroyProvider, err := newOCRProvider(cmd.Context(), cmd.Flags())
		if err != nil {
			return err
		}
		defer destroyProvider()

		check, _ := cmd.Flags().GetBool("check")
		extractor := extract.New(ocrProvider)
		s := &server{
			engine:    ocr2sheet.NewEngine(extractor, ocr2sheet.WithLogger(slog.Default()), ocr2sheet.WithScriptCheck(check)),
			extractor: extractor,
			logger:    slog.Default(),
		}

		ginEngine := newRouter(s)
		maxUploadMB, _ := cmd.Flags().GetInt64("max-upload-mb")
		ginEngine.MaxMultipartMemory = maxUploadMB << 20

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetUint("port")
		address := fmt.Sprintf("%s:%d", host, port)
		s.logger.Info("starting HTTP server", slog.String("address", address))
		if err := ginEngine.Run(address); err != nil {
			return errors.Join(errors.New("failed to run HTTP server engine"), err)
		}

		return nil
	},
}

func newRouter(s *server) *gin.Engine {
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), requestLogger(s.logger))
	ginEngine.SetHTMLTemplate(indexTemplate)

	ginEngine.GET("/", s.handleIndex)
	ginEngine.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginEngine.POST("/convert", s.handleConvert)
	ginEngine.POST("/convert/xlsx", s.handleConvertXLSX)
	ginEngine.POST("/ocr", s.handleOCR)
	ginEngine.POST("/table", s.handleTable)
	ginEngine.POST("/emit", s.handleEmit)
	return ginEngine
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		attrs := []any{
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
			slog.Int("status", ctx.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("clientIP", ctx.ClientIP()),
		}
		if len(ctx.Errors) > 0 {
			attrs = append(attrs, slog.String("error", ctx.Errors.String()))
		}
		logger.InfoContext(ctx.Request.Context(), "request", attrs...)
	}
}

func (s *server) renderIndex(ctx *gin.Context, status int, selected emit.Dialect, reportHTML string, errorMessage string) {
	ctx.HTML(status, "index", gin.H{
		"Dialects": emit.Dialects(),
		"Selected": selected,
		"Report":   template.HTML(reportHTML),
		"Error":    errorMessage,
	})
}

func (s *server) handleIndex(ctx *gin.Context) {
	s.renderIndex(ctx, http.StatusOK, emit.DialectUnset, "", "")
}

func wantsHTML(ctx *gin.Context) bool {
	return ctx.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

func (s *server) badRequest(ctx *gin.Context, selected emit.Dialect, err error) {
	ctx.Error(err)
	if wantsHTML(ctx) {
		s.renderIndex(ctx, http.StatusBadRequest, selected, "", err.Error())
		return
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *server) internalError(ctx *gin.Context, selected emit.Dialect, err error) {
	ctx.Error(err)
	if wantsHTML(ctx) {
		s.renderIndex(ctx, http.StatusInternalServerError, selected, "", err.Error())
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Reads uploaded images into memory and converts them in upload order
func (s *server) convertUpload(ctx *gin.Context) (emit.Dialect, []ocr2sheet.Result, bool) {
	form, err := ctx.MultipartForm()
	if err != nil {
		s.badRequest(ctx, emit.DialectUnset, errors.Join(errors.New("failed to read multipart form"), err))
		return emit.DialectUnset, nil, false
	}

	dialect, err := emit.ParseDialect(ctx.PostForm("dialect"))
	if err == nil && dialect == emit.DialectUnset {
		err = emit.ErrDialectNotSelected
	}
	if err != nil {
		s.badRequest(ctx, emit.DialectUnset, err)
		return emit.DialectUnset, nil, false
	}

	files := form.File["images"]
	if len(files) == 0 {
		s.badRequest(ctx, dialect, errors.New("no images uploaded"))
		return dialect, nil, false
	}

	uploadFS := memfs.New()
	names := make([]string, 0, len(files))
	used := make(map[string]bool, len(files))
	for i, file := range files {
		name := uploadName(file.Filename, i+1, used)
		if err := storeUpload(uploadFS, name, file); err != nil {
			s.badRequest(ctx, dialect, err)
			return dialect, nil, false
		}
		names = append(names, name)
	}

	results, err := s.engine.Process(ctx.Request.Context(), dialect, sourcefs.NewFiles(uploadFS, names...))
	if err != nil {
		s.internalError(ctx, dialect, err)
		return dialect, nil, false
	}
	return dialect, results, true
}

func uploadName(filename string, index int, used map[string]bool) string {
	name := path.Base("/" + filename)
	if name == "/" || name == "." || name == ".." {
		name = fmt.Sprintf("image_%d", index)
	}
	candidate := name
	for n := 1; used[candidate]; n++ {
		if n == 1 {
			candidate = fmt.Sprintf("%d_%s", index, name)
		} else {
			candidate = fmt.Sprintf("%d_%d_%s", index, n, name)
		}
	}
	used[candidate] = true
	return candidate
}

func storeUpload(uploadFS *memfs.FS, name string, file *multipart.FileHeader) error {
	f, err := file.Open()
	if err != nil {
		return errors.Join(fmt.Errorf("failed to open uploaded file %s", file.Filename), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return errors.Join(fmt.Errorf("failed to read uploaded file %s", file.Filename), err)
	}
	return uploadFS.WriteFile(name, data, 0o600)
}

func (s *server) handleConvert(ctx *gin.Context) {
	dialect, results, ok := s.convertUpload(ctx)
	if !ok {
		return
	}

	if wantsHTML(ctx) {
		reportHTML, err := report.HTML(results)
		if err != nil {
			s.internalError(ctx, dialect, err)
			return
		}
		s.renderIndex(ctx, http.StatusOK, dialect, reportHTML, "")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"dialect": dialect,
		"results": results,
	})
}

func (s *server) handleConvertXLSX(ctx *gin.Context) {
	dialect, results, ok := s.convertUpload(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf, workbookSheets(results)...); err != nil {
		s.internalError(ctx, dialect, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="ocr2sheet.xlsx"`)
	ctx.Header("X-Failed-Images", fmt.Sprintf("%d", countFailed(results)))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *server) handleOCR(ctx *gin.Context) {
	result := s.extractor.Extract(ctx.Request.Context(), ctx.Request.Body, "")
	var errorString string
	if result.Err != nil {
		errorString = result.Err.Error()
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status": result.Err == nil,
		"result": result.Text,
		"error":  errorString,
	})
}

func (s *server) handleTable(ctx *gin.Context) {
	text, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		s.badRequest(ctx, emit.DialectUnset, errors.Join(errors.New("failed to read request body"), err))
		return
	}

	grid := table.Build(string(text))
	ctx.JSON(http.StatusOK, gin.H{
		"grid":  grid,
		"rows":  len(grid),
		"cells": grid.Cells(),
	})
}

func (s *server) handleEmit(ctx *gin.Context) {
	dialect, err := emit.ParseDialect(ctx.Query("dialect"))
	if err != nil {
		s.badRequest(ctx, emit.DialectUnset, err)
		return
	}
	emitter, err := emit.For(dialect)
	if err != nil {
		s.badRequest(ctx, emit.DialectUnset, err)
		return
	}

	var grid table.Grid
	if err := ctx.ShouldBindJSON(&grid); err != nil {
		s.badRequest(ctx, dialect, errors.Join(errors.New("request body must be JSON array of rows"), err))
		return
	}
	if grid == nil {
		grid = table.Grid{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"dialect": dialect,
		"code":    emitter(grid),
	})
}

func init() {
	serveCMD.Flags().String("host", "0.0.0.0", "Host server will be listening on")
	serveCMD.Flags().Uint("port", 8884, "Port server will be listening on")
	serveCMD.Flags().Int64("max-upload-mb", 32, "Uploaded images kept in memory while parsing multipart form, in megabytes")
	serveCMD.Flags().Bool("check", false, "Run generated Apps Script against an in-memory sheet and report if it writes the table")
	addOCRFlags(serveCMD.Flags())
}

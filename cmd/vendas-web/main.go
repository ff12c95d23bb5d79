package main

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/vendaslab/vendas-pipeline/internal/config"
	"github.com/vendaslab/vendas-pipeline/internal/logging"
	"github.com/vendaslab/vendas-pipeline/internal/metrics"
	"github.com/vendaslab/vendas-pipeline/internal/pipeline"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>Análise de Vendas</title></head>
<body>
<h1>Sistema de Análise de Vendas</h1>
<form method="POST" action="/process">
  <label>Arquivo de Vendas (opcional):</label>
  <input type="text" name="source" size="50" value="{{.Source}}">
  <button type="submit">Processar Dados e Gerar Dashboard</button>
</form>
{{if .Message}}<p><b>{{.Message}}</b></p>{{end}}
{{if .OK}}<p>Arquivo: {{.Report}}<br>Gráficos: {{.Images}}/</p>{{end}}
</body>
</html>`))

type pageData struct {
	Source  string
	Message string
	OK      bool
	Report  string
	Images  string
}

func main() {
	cfg := config.FromEnv()

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})
	metrics.Init("vendas_pipeline")

	runner := pipeline.NewRunner(cfg)

	// One pipeline run at a time: the database file is an exclusive resource.
	var runMu sync.Mutex

	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		render(c, pageData{})
	})

	router.POST("/process", func(c *gin.Context) {
		source := c.PostForm("source")

		runMu.Lock()
		ok := runner.Run(c.Request.Context(), source)
		runMu.Unlock()

		data := pageData{Source: source, OK: ok, Report: cfg.ReportPath(), Images: cfg.Paths.ImagesDir}
		if ok {
			data.Message = "Dashboard gerado com sucesso!"
		} else {
			data.Message = "Erro ao processar dados. Veja os logs."
		}
		render(c, data)
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func render(c *gin.Context, data pageData) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(c.Writer, data); err != nil {
		c.String(http.StatusInternalServerError, "template error: %v", err)
	}
}

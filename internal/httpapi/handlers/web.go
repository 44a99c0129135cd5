package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

// Templates parses the built-in page set for gin's SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.ParseFS(webFS, "web/templates/*.html"))
}

// Static serves the browser client assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Personas listed in the home page picker. Any other tag is still accepted
// by /history and /ask.
var Personas = []string{"Krishna", "Shiva", "Ganesha", "Hanuman", "Durga", "Rama"}

type formPage struct {
	Email string
	Error string
}

type indexPage struct {
	Email    string
	Persona  string
	Personas []string
}

package services

import (
	"strings"
	"text/template"
)

var (
	moodPrompt = template.Must(template.New("mood").Parse(
		"Analyze the following mood description and return a single keyword that represents the mood:\n\n" +
			"{{.Description}}\n\nIMPORTANT: RETURN ONLY THE KEYWORD."))

	genrePrompt = template.Must(template.New("genres").Parse(
		"Given the mood '{{.Mood}}', suggest 3 music genres that would match this emotional state, " +
			"as a comma-separated list. DO NOT RETURN ANYTHING ELSE."))

	keywordPrompt = template.Must(template.New("keywords").Parse(
		"For the mood '{{.Mood}}', give 3 musical search keywords (like 'slow beat', 'uplifting vocals'), " +
			"comma-separated. DO NOT RETURN ANYTHING ELSE."))

	energyPrompt = template.Must(template.New("energy").Parse(
		"On a scale from 0.0 (very calm) to 1.0 (very energetic), estimate the energy level of music " +
			"that suits the mood '{{.Mood}}'. RETURN ONLY A NUMBER."))

	valencePrompt = template.Must(template.New("valence").Parse(
		"On a scale from 0.0 (very negative) to 1.0 (very positive), estimate the valence level of music " +
			"that matches the mood '{{.Mood}}'. RETURN ONLY A NUMBER."))

	explanationPrompt = template.Must(template.New("explanation").Parse(
		"Given the mood '{{.Mood}}', genres {{.Genres}}, and keywords {{.Keywords}}, " +
			"explain in 2-3 sentences why this music fits the emotional state."))

	songsPrompt = template.Must(template.New("songs").Parse(
		`Based on the mood description: "{{.Description}}", mood '{{.Mood}}', which is associated with genres {{.Genres}} and keywords {{.Keywords}},
recommend exactly {{.Count}} specific songs (with their artists) that would match this mood. If the user requests some specific tracks add them to the list as well. Your main priority is user satisfiability.

Return ONLY a comma-separated list in the format "Song Title by Artist" without numbering or additional text.
For example: "Bohemian Rhapsody by Queen, Yesterday by The Beatles, Imagine by John Lennon"`))
)

// promptData carries the named placeholders shared by every template.
type promptData struct {
	Description string
	Mood        string
	Genres      string
	Keywords    string
	Count       int
}

func render(t *template.Template, data promptData) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

package web

import (
	"html/template"

	"github.com/Rorical/LeadForm/internal/predict"
	"github.com/Rorical/LeadForm/ui/components"
)

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"label":   components.PredictionLabel,
	"percent": components.Percent,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Marketing Campaign Predictor</title>
</head>
<body>
<div class="App">
  <h1>Marketing Campaign Predictor</h1>
  <form method="post" action="/" class="form" novalidate>
    {{range .Fields}}
    <div class="input-group">
      <label for="{{.Name}}">{{.Label}}:</label>
      <input id="{{.Name}}" name="{{.Name}}" type="number" step="any" placeholder="{{.Placeholder}}"
             value="{{.Value}}" data-index="{{.Index}}" required>
      <span class="error" id="{{.Name}}-error">{{.Error}}</span>
    </div>
    {{end}}
    <button type="submit">Predict</button>
  </form>

  {{if .SubmissionError}}<p class="error">{{.SubmissionError}}</p>{{end}}

  {{with .Result}}
  <div class="result">
    <h2>Result:</h2>
    <p><strong>Prediction:</strong> {{label .Prediction}}</p>
    <p><strong>Probability:</strong> {{percent .Probability}}</p>
  </div>
  {{end}}
</div>
<script>
document.querySelectorAll("input[data-index]").forEach(function (input) {
  input.addEventListener("input", function () {
    var url = "/fields/" + input.dataset.index + "/validate?value=" + encodeURIComponent(input.value);
    fetch(url).then(function (r) { return r.json(); }).then(function (body) {
      document.getElementById(input.name + "-error").textContent = body.error || "";
    });
  });
});
</script>
</body>
</html>
`))

type fieldView struct {
	Index       int
	Name        string
	Label       string
	Placeholder string
	Value       string
	Error       string
}

type pageView struct {
	Fields          []fieldView
	SubmissionError string
	Result          *predict.Result
}

package web

import (
	"html/template"
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"eq":       func(a, b string) bool { return a == b },
		"duration": func(d time.Duration) string { return ui.FormatDurationShort(d) },
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  {{if .Refresh}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
  <title>Shop</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
      backdrop-filter: blur(6px);
    }
    header h1 {
      margin: 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .clock {
      font-family: "Menlo", "Consolas", monospace;
      font-size: 22px;
    }
    main {
      display: flex;
      gap: 18px;
      padding: 18px 24px 28px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 16px 20px;
    }
    .shelf {
      flex: 1;
    }
    .trolley {
      width: 30%;
      min-width: 220px;
    }
    .item-list {
      list-style: none;
      padding: 0;
      margin: 0;
      display: flex;
      flex-direction: column;
      gap: 8px;
    }
    .list-item {
      display: flex;
      justify-content: space-between;
      align-items: center;
      padding: 10px 12px;
      border-radius: 10px;
      border: 1px solid transparent;
    }
    .list-item.active {
      border-color: #c7baa8;
      background: #f6f0e6;
    }
    .item-title {
      font-weight: 600;
    }
    .item-meta {
      color: #72685f;
      font-size: 12px;
    }
    .actions {
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
      margin-top: 16px;
    }
    button {
      padding: 8px 14px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .readonly {
      display: grid;
      grid-template-columns: 120px 1fr;
      gap: 6px 12px;
      font-size: 14px;
      margin: 16px 0 8px;
    }
    .readonly dt {
      font-weight: 600;
      color: #4f4540;
    }
    .readonly dd {
      margin: 0;
    }
    .prompt, .notification {
      padding: 10px 12px;
      border-radius: 8px;
      background: #fcf8f1;
      border: 1px solid #e0d6c6;
      margin-bottom: 12px;
    }
    .error {
      padding: 10px 12px;
      border-radius: 8px;
      background: #f7d9d6;
      border: 1px solid #d9a7a2;
      margin: 12px 24px 0;
      color: #5b1d17;
    }
    .code {
      font-family: "Menlo", "Consolas", monospace;
      font-size: 28px;
      padding: 12px;
      background: #fcf8f1;
      border: 1px solid #e0d6c6;
      border-radius: 8px;
      display: inline-block;
    }
    .muted {
      color: #72685f;
    }
    form {
      display: inline;
    }
    @media (max-width: 900px) {
      main {
        flex-direction: column;
      }
      .trolley {
        width: auto;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>Shop</h1>
    <span class="muted">Participant {{.Snapshot.ParticipantID}}</span>
    <span class="clock" id="clock">{{.Snapshot.HUD.Clock}}</span>
  </header>
  {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
  {{with .Snapshot.Result}}
  <main>
    <section class="pane shelf">
      <h2>Thank you!</h2>
      <p>Your completion code is:</p>
      <p class="code" id="code">{{.Code}}</p>
      <p class="muted">Please enter this code in the survey. Session {{.Reason}} after {{duration .Elapsed}} with {{.TotalItems}} item(s).</p>
    </section>
  </main>
  {{else}}
  <main>
    <section class="pane shelf">
      {{if .Snapshot.HUD.Notification}}<div class="notification" id="notification">{{.Snapshot.HUD.Notification}}</div>{{end}}
      {{if .Snapshot.HUD.ConfirmVisible}}
        <h2>Finish shopping?</h2>
        <p>Are you sure you want to end the experiment now?</p>
        <div class="actions">
          <form method="post" action="/web/actions/confirm"><button class="danger" type="submit">Yes, finish</button></form>
          <form method="post" action="/web/actions/decline"><button type="submit">No, keep shopping</button></form>
        </div>
      {{else if .Snapshot.HUD.Panel}}
        {{with .Snapshot.HUD.Panel}}
        <h2>{{.Name}}</h2>
        <dl class="readonly">
          <dt>Type</dt><dd>{{.Type}}</dd>
          <dt>Price</dt><dd>{{.PriceLabel}}</dd>
          {{if .Description}}<dt>About</dt><dd>{{.Description}}</dd>{{end}}
        </dl>
        {{end}}
        <div class="actions">
          <form method="post" action="/web/actions/buy"><button type="submit">Add to cart</button></form>
          <form method="post" action="/web/actions/close"><button type="submit">Close</button></form>
        </div>
      {{else}}
        {{if .Snapshot.HUD.Prompt}}<div class="prompt" id="prompt">{{.Snapshot.HUD.Prompt}}</div>{{end}}
        <h2>Shelves</h2>
        <ul class="item-list">
          {{range .Products}}
            <li class="list-item {{if eq .Name $.Snapshot.Focused}}active{{end}}">
              <span>
                <span class="item-title">{{.Name}}</span>
                <span class="item-meta">{{.Type}} · {{.PriceLabel}}</span>
              </span>
              {{if eq .Name $.Snapshot.Focused}}
                <form method="post" action="/web/actions/interact"><button type="submit">Inspect</button></form>
              {{else}}
                <form method="post" action="/web/actions/look"><input type="hidden" name="product" value="{{.Name}}"><button type="submit">Look</button></form>
              {{end}}
            </li>
          {{end}}
        </ul>
        <div class="actions">
          <form method="post" action="/web/actions/end"><button class="danger" type="submit">Finish shopping</button></form>
        </div>
      {{end}}
    </section>
    {{if .Snapshot.ShowTrolley}}
    <section class="pane trolley" id="trolley">
      <h2>Trolley ({{.Snapshot.HUD.TotalItems}})</h2>
      <ul class="item-list">
        {{range .Snapshot.HUD.Lines}}
          <li class="list-item"><span class="item-title">{{.Name}}</span><span>× {{.Quantity}}</span></li>
        {{else}}
          <li class="muted">Your trolley is empty.</li>
        {{end}}
      </ul>
    </section>
    {{end}}
  </main>
  {{end}}
</body>
</html>
`

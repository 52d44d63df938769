package leaderboardhandlers

import (
	"html/template"

	leaderboarddisplay "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/display"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
)

type indexData struct {
	Theme          string
	Stylesheet     themedomain.Stylesheet
	Rows           []leaderboarddisplay.Row
	GoogleClientID string
	StreamPath     string
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>CUWAIS Leaderboard</title>
    <link id="theme-stylesheet" rel="stylesheet" href="{{.Stylesheet.Href}}" integrity="{{.Stylesheet.Integrity}}" crossorigin="anonymous">
    <style>
        tr.role-you td { font-weight: bold; }
        tr.role-bot td { font-style: italic; opacity: 0.8; }
        tr.blank td { opacity: 0.4; }
    </style>
    {{- if .GoogleClientID}}
    <script src="https://accounts.google.com/gsi/client" async defer></script>
    {{- end}}
</head>
<body data-theme="{{.Theme}}">
<nav class="navbar navbar-expand">
    <span class="navbar-brand">CUWAIS</span>
    <form method="post" action="/theme/light" class="form-inline mr-1"><button class="btn btn-sm btn-outline-secondary" type="submit">Light</button></form>
    <form method="post" action="/theme/dark" class="form-inline mr-1"><button class="btn btn-sm btn-outline-secondary" type="submit">Dark</button></form>
    <form method="post" action="/auth/logout" class="form-inline ml-auto"><button class="btn btn-sm btn-outline-danger" type="submit">Log out</button></form>
</nav>
<main class="container">
    {{- if .GoogleClientID}}
    <div id="g_id_onload" data-client_id="{{.GoogleClientID}}" data-login_uri="/auth/google" data-auto_prompt="false"></div>
    <div class="g_id_signin" data-type="standard"></div>
    {{- end}}

    <h1>Leaderboard</h1>
    <table class="table table-sm">
        <thead><tr><th>#</th><th>Name</th><th>Score</th><th>W/L/D</th></tr></thead>
        <tbody id="leaderboard-rows">
        {{- range .Rows}}
            {{- if .Blank}}
            <tr class="blank"><td colspan="4">…</td></tr>
            {{- else}}
            <tr class="role-{{.Role}}"><td>{{.Position}}</td><td>{{.Name}}</td><td>{{.Score}}</td><td>{{.Record}}</td></tr>
            {{- end}}
        {{- else}}
            <tr id="empty-row"><td colspan="4">No entries yet.</td></tr>
        {{- end}}
        </tbody>
    </table>
    <p><a href="/leaderboard.xlsx">Download spreadsheet</a></p>

    <h2>Score history</h2>
    <img src="/history.png" alt="Score history" class="img-fluid">

    <h2>Submit</h2>
    <form method="post" action="/submissions" class="form-inline">
        <input class="form-control mr-2" type="url" name="url" placeholder="https://github.com/you/your-bot">
        <button class="btn btn-primary" type="submit">Submit</button>
    </form>
</main>
<script>
    const rows = document.getElementById('leaderboard-rows');

    function blankRow() {
        const tr = document.createElement('tr');
        tr.className = 'blank';
        const td = document.createElement('td');
        td.colSpan = 4;
        td.textContent = '…';
        tr.appendChild(td);
        return tr;
    }

    function connect() {
        const source = new EventSource({{.StreamPath}});
        source.addEventListener('remove', (e) => {
            const ev = JSON.parse(e.data);
            const row = rows.children[ev.index];
            if (row) row.remove();
        });
        source.addEventListener('create', (e) => {
            const ev = JSON.parse(e.data);
            const empty = document.getElementById('empty-row');
            if (empty) empty.remove();
            rows.insertBefore(blankRow(), rows.children[ev.index] || null);
        });
        source.addEventListener('populate', (e) => {
            const ev = JSON.parse(e.data);
            const tr = rows.children[ev.index];
            if (!tr) return;
            tr.className = 'role-' + ev.role;
            tr.replaceChildren(...[ev.position, ev.name, ev.score, ev.record].map((text) => {
                const td = document.createElement('td');
                td.textContent = text;
                return td;
            }));
        });
        source.onerror = () => {
            source.close();
            setTimeout(connect, 5000);
        };
    }
    connect();
</script>
</body>
</html>
`

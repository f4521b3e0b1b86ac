package api

const eventsDocsHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Event Feed — Stockly</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; }

    body {
      margin: 0;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", sans-serif;
      font-size: 14px;
      line-height: 1.65;
      background: #0d1117;
      color: #c9d1d9;
      display: flex;
      flex-direction: column;
      min-height: 100vh;
    }

    a { color: #58a6ff; text-decoration: none; }
    a:hover { text-decoration: underline; }

    /* ── top nav ── */
    nav {
      background: #161b22;
      border-bottom: 1px solid #30363d;
      padding: 0 24px;
      height: 48px;
      display: flex;
      align-items: center;
      gap: 24px;
      flex-shrink: 0;
    }
    nav .brand {
      font-weight: 600;
      font-size: 15px;
      color: #e6edf3;
    }
    nav .sep { color: #484f58; }
    nav .current { color: #e6edf3; font-weight: 500; }
    nav .back { font-size: 13px; }

    /* ── layout ── */
    .layout {
      display: flex;
      flex: 1;
      max-width: 1100px;
      width: 100%;
      margin: 0 auto;
      padding: 0 16px;
    }

    /* ── sidebar ── */
    aside {
      width: 220px;
      flex-shrink: 0;
      padding: 32px 16px 32px 0;
      position: sticky;
      top: 0;
      height: calc(100vh - 48px);
      overflow-y: auto;
    }
    aside h4 {
      margin: 0 0 8px;
      font-size: 11px;
      font-weight: 600;
      text-transform: uppercase;
      letter-spacing: .08em;
      color: #8b949e;
    }
    aside ul {
      list-style: none;
      margin: 0 0 24px;
      padding: 0;
    }
    aside ul li a {
      display: block;
      padding: 4px 8px;
      border-radius: 4px;
      font-size: 13px;
      color: #8b949e;
    }
    aside ul li a:hover {
      background: #21262d;
      color: #c9d1d9;
      text-decoration: none;
    }

    /* ── main content ── */
    main {
      flex: 1;
      padding: 32px 0 64px 32px;
      border-left: 1px solid #21262d;
      min-width: 0;
    }

    h1 {
      margin: 0 0 8px;
      font-size: 28px;
      font-weight: 600;
      color: #e6edf3;
    }
    .subtitle {
      color: #8b949e;
      margin: 0 0 36px;
      font-size: 15px;
    }

    h2 {
      margin: 40px 0 12px;
      font-size: 18px;
      font-weight: 600;
      color: #e6edf3;
      padding-bottom: 8px;
      border-bottom: 1px solid #21262d;
    }
    h3 {
      margin: 28px 0 10px;
      font-size: 15px;
      font-weight: 600;
      color: #e6edf3;
    }

    p { margin: 0 0 12px; }

    /* ── method + path badge ── */
    .endpoint {
      display: inline-flex;
      align-items: center;
      gap: 10px;
      background: #161b22;
      border: 1px solid #30363d;
      border-radius: 6px;
      padding: 10px 16px;
      margin-bottom: 20px;
      font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace;
      font-size: 14px;
    }
    .method {
      background: #1f6feb;
      color: #fff;
      font-weight: 700;
      font-size: 11px;
      padding: 2px 7px;
      border-radius: 4px;
      letter-spacing: .04em;
    }
    .path { color: #e6edf3; }

    /* ── tables ── */
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 20px;
      font-size: 13px;
    }
    th {
      text-align: left;
      padding: 8px 12px;
      background: #161b22;
      color: #8b949e;
      font-weight: 600;
      border-bottom: 1px solid #30363d;
    }
    td {
      padding: 8px 12px;
      border-bottom: 1px solid #21262d;
      vertical-align: top;
    }
    tr:last-child td { border-bottom: none; }
    code {
      font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace;
      font-size: 12px;
      background: #161b22;
      border: 1px solid #30363d;
      border-radius: 3px;
      padding: 1px 5px;
      color: #e6edf3;
    }

    /* ── code blocks ── */
    pre {
      background: #161b22;
      border: 1px solid #30363d;
      border-radius: 6px;
      padding: 16px;
      overflow-x: auto;
      margin: 0 0 20px;
    }
    pre code {
      background: none;
      border: none;
      padding: 0;
      font-size: 13px;
      line-height: 1.6;
      color: #c9d1d9;
    }

    /* ── topic cards ── */
    .topic-card {
      background: #161b22;
      border: 1px solid #30363d;
      border-radius: 8px;
      padding: 16px 20px;
      margin-bottom: 14px;
    }
    .topic-card h3 { margin: 0 0 10px; font-size: 14px; }
    .topic-card code { font-size: 13px; }
    .topic-meta {
      display: flex;
      flex-wrap: wrap;
      gap: 8px;
      margin-bottom: 10px;
      font-size: 12px;
    }
    .topic-meta span { color: #8b949e; }
    .tag {
      background: #21262d;
      border: 1px solid #30363d;
      border-radius: 3px;
      padding: 1px 6px;
      font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace;
      font-size: 11px;
      color: #8b949e;
    }

    /* ── SSE format visualization ── */
    .sse-block {
      background: #161b22;
      border: 1px solid #30363d;
      border-radius: 6px;
      padding: 16px;
      margin-bottom: 20px;
      font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace;
      font-size: 13px;
      line-height: 1.8;
    }
    .sse-key { color: #79c0ff; }
    .sse-value { color: #a5d6ff; }
  </style>
</head>
<body>

<nav>
  <span class="brand">Stockly</span>
  <span class="sep">/</span>
  <span class="current">Event Feed</span>
  <a class="back" href="/docs">← REST API Docs</a>
</nav>

<div class="layout">

  <aside>
    <h4>On this page</h4>
    <ul>
      <li><a href="#overview">Overview</a></li>
      <li><a href="#endpoint">Endpoint</a></li>
      <li><a href="#topics">Topics</a></li>
      <li><a href="#sse-format">SSE Event Format</a></li>
      <li><a href="#examples">Examples</a></li>
      <li><a href="#notes">Notes</a></li>
    </ul>
  </aside>

  <main>
    <h1>Event Feed</h1>
    <p class="subtitle">Stream watchlist, search, and quote changes to HTTP clients via Server-Sent Events.</p>

    <!-- OVERVIEW -->
    <h2 id="overview">Overview</h2>
    <p>
      The event feed pushes controller state changes to any HTTP client the moment they
      happen. Whenever a search resolves, a symbol is added or removed, or a quote
      updates — whether from a REST refresh or a live WebSocket price tick — the
      controller publishes an event that every connected subscriber receives.
    </p>
    <p>
      This lets a UI mirror the controller without polling: subscribe once, render on
      each event.
    </p>

    <!-- ENDPOINT -->
    <h2 id="endpoint">Endpoint</h2>
    <div class="endpoint">
      <span class="method">GET</span>
      <span class="path">/api/v1/events</span>
    </div>

    <h3>Query Parameters</h3>
    <table>
      <thead>
        <tr><th>Name</th><th>Type</th><th>Required</th><th>Description</th></tr>
      </thead>
      <tbody>
        <tr>
          <td><code>topics</code></td>
          <td>string</td>
          <td>No</td>
          <td>
            Comma-separated list of topic names to receive. Omit to receive every
            topic. Example: <code>?topics=quote,watchlist</code>
          </td>
        </tr>
      </tbody>
    </table>

    <h3>Response Headers</h3>
    <table>
      <thead>
        <tr><th>Header</th><th>Value</th></tr>
      </thead>
      <tbody>
        <tr><td><code>Content-Type</code></td><td><code>text/event-stream</code></td></tr>
        <tr><td><code>Cache-Control</code></td><td><code>no-cache</code></td></tr>
        <tr><td><code>Connection</code></td><td><code>keep-alive</code></td></tr>
      </tbody>
    </table>

    <!-- TOPICS -->
    <h2 id="topics">Topics</h2>

    <div class="topic-card">
      <h3><code>state</code></h3>
      <div class="topic-meta">
        <span>Emitted on:</span>
        <span class="tag">every state change</span>
      </div>
      <p>
        The full UI state snapshot — query, pending flag, search results, watchlist,
        quotes, and last error. Emitted alongside every narrower topic, so a client
        that only wants one stream to rebuild from can subscribe to this alone.
      </p>
      <pre><code>{"query":"AAPL","search_pending":false,"search_results":[...],"watchlist":["AAPL"],"quotes":{...}}</code></pre>
    </div>

    <div class="topic-card">
      <h3><code>search</code></h3>
      <div class="topic-meta">
        <span>Emitted on:</span>
        <span class="tag">search resolved</span>
        <span class="tag">search cleared</span>
      </div>
      <p>
        The query and its resolved instrument matches. Stale results — a slower
        response arriving after the query changed — are discarded and never emitted.
      </p>
      <pre><code>{"query":"AAPL","results":[{"symbol":"AAPL","exchange":"NASDAQ","currency":"USD","name":"Apple Inc."}]}</code></pre>
    </div>

    <div class="topic-card">
      <h3><code>watchlist</code></h3>
      <div class="topic-meta">
        <span>Emitted on:</span>
        <span class="tag">symbol added</span>
        <span class="tag">symbol removed</span>
      </div>
      <p>The full ordered symbol list after every mutation.</p>
      <pre><code>{"symbols":["AAPL","TSLA","AAPL"]}</code></pre>
    </div>

    <div class="topic-card">
      <h3><code>quote</code></h3>
      <div class="topic-meta">
        <span>Emitted on:</span>
        <span class="tag">REST refresh</span>
        <span class="tag">stream price tick</span>
      </div>
      <p>
        A single symbol's quote. <code>source</code> is <code>rest</code> for quotes
        fetched over HTTP and <code>stream</code> for live WebSocket ticks.
      </p>
      <pre><code>{"symbol":"AAPL","price":"228.63","change":"1.27","direction":"up","source":"stream","updated_at":"2026-03-09T14:05:12Z"}</code></pre>
    </div>

    <!-- SSE FORMAT -->
    <h2 id="sse-format">SSE Event Format</h2>
    <p>Each event follows the standard SSE format. The <code>event</code> field is the topic name.</p>
    <div class="sse-block">
      <span class="sse-key">event:</span> <span class="sse-value">quote</span><br>
      <span class="sse-key">data:</span> <span class="sse-value">{"symbol":"AAPL","price":"228.63","change":"1.27",...}</span><br>
      <br>
      <span class="sse-key">event:</span> <span class="sse-value">watchlist</span><br>
      <span class="sse-key">data:</span> <span class="sse-value">{"symbols":["AAPL","TSLA"]}</span><br>
      <br>
    </div>

    <!-- EXAMPLES -->
    <h2 id="examples">Examples</h2>

    <h3>Browser — EventSource</h3>
    <pre><code>// Subscribe to all topics
const sse = new EventSource('http://127.0.0.1:8098/api/v1/events');

sse.addEventListener('quote', (e) => {
  const q = JSON.parse(e.data);
  console.log(q.symbol, q.price, q.direction);
});

sse.addEventListener('watchlist', (e) => {
  const w = JSON.parse(e.data);
  console.log('watchlist:', w.symbols);
});

sse.onerror = (e) => console.error('SSE error', e);</code></pre>

    <h3>Browser — Filter to one topic</h3>
    <pre><code>const sse = new EventSource(
  'http://127.0.0.1:8098/api/v1/events?topics=quote'
);</code></pre>

    <h3>curl</h3>
    <pre><code>curl -N http://127.0.0.1:8098/api/v1/events
curl -N 'http://127.0.0.1:8098/api/v1/events?topics=quote,watchlist'</code></pre>

    <!-- NOTES -->
    <h2 id="notes">Notes</h2>
    <ul>
      <li>
        <strong>Buffer &amp; back-pressure:</strong> each subscriber has an in-memory
        buffer (<code>STOCKLY_FEED_BUFFER</code>, default 64 events). Slow clients will
        have events silently dropped — the broker is non-blocking.
      </li>
      <li>
        <strong>Reconnection:</strong> the browser's built-in <code>EventSource</code>
        automatically reconnects on disconnect. For other clients, implement reconnect
        with exponential backoff.
      </li>
      <li>
        <strong>Authentication:</strong> the feed endpoint has no authentication. Bind
        the controller to <code>127.0.0.1</code> (the default) to prevent external access.
      </li>
    </ul>

  </main>
</div>

</body>
</html>`

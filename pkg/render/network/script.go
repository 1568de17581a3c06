package network

// disclosureJS drives node and edge visibility in the browser. The rules match
// disclosure.Session: visibility is derived from the expanded set, collapse
// prunes expanded nodes that became hidden, and an edge shows only when both
// endpoints show and it is initially visible or leads from an expanded node
// to a direct child.
const disclosureJS = `
function gcpmapDisclosure(payload) {
  var container = document.getElementById(payload.container);
  var clickable = {};
  var children = payload.children || {};
  var expanded = new Set();

  function tooltip(html) {
    if (!html) return undefined;
    var el = document.createElement('div');
    el.innerHTML = html;
    return el;
  }

  var nodes = new vis.DataSet(payload.nodes.map(function (n) {
    clickable[n.id] = n.clickable === true;
    return Object.assign({}, n, { title: tooltip(n.title) });
  }));
  var edges = new vis.DataSet(payload.edges);
  var network = new vis.Network(container, { nodes: nodes, edges: edges }, payload.options);

  function deriveNodes() {
    var visible = new Set();
    var queue = [];
    payload.nodes.forEach(function (n) {
      if (n.level === 0 || n.level === 1 || n.level < 0) {
        visible.add(n.id);
        queue.push(n.id);
      }
    });
    while (queue.length > 0) {
      var id = queue.shift();
      if (!expanded.has(id)) continue;
      (children[id] || []).forEach(function (c) {
        if (!visible.has(c)) {
          visible.add(c);
          queue.push(c);
        }
      });
    }
    return visible;
  }

  function deriveEdges(visible) {
    var out = new Set();
    payload.edges.forEach(function (e) {
      if (!visible.has(e.from) || !visible.has(e.to)) return;
      if (e.initial || (expanded.has(e.from) && e.direct)) out.add(e.id);
    });
    return out;
  }

  var shownNodes = deriveNodes();
  var shownEdges = deriveEdges(shownNodes);

  function refresh() {
    var nextNodes = deriveNodes();
    expanded.forEach(function (id) {
      if (!nextNodes.has(id)) expanded.delete(id);
    });
    var nextEdges = deriveEdges(nextNodes);

    var nodeUpdates = [];
    var edgeUpdates = [];
    payload.nodes.forEach(function (n) {
      if (nextNodes.has(n.id) !== shownNodes.has(n.id)) {
        nodeUpdates.push({ id: n.id, hidden: !nextNodes.has(n.id) });
      }
    });
    payload.edges.forEach(function (e) {
      if (nextEdges.has(e.id) !== shownEdges.has(e.id)) {
        edgeUpdates.push({ id: e.id, hidden: !nextEdges.has(e.id) });
      }
    });
    shownNodes = nextNodes;
    shownEdges = nextEdges;

    if (edgeUpdates.length > 0) edges.update(edgeUpdates);
    if (nodeUpdates.length > 0) nodes.update(nodeUpdates);
    return nodeUpdates.length + edgeUpdates.length;
  }

  function canToggle(id) {
    return clickable[id] === true && shownNodes.has(id);
  }

  network.on('click', function (params) {
    if (params.nodes.length === 0) return;
    var id = params.nodes[0];
    if (!canToggle(id)) return;
    if (expanded.has(id)) {
      expanded.delete(id);
    } else {
      expanded.add(id);
    }
    if (refresh() > 0) network.fit();
  });

  network.on('hoverNode', function (params) {
    container.style.cursor = canToggle(params.node) ? 'pointer' : 'default';
  });

  network.on('blurNode', function () {
    container.style.cursor = 'default';
  });

  return network;
}
`

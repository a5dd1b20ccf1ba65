package domprobe

// Every node the probe talks about gets a small integer ID from a
// page-side registry, so hit results, parent links and annotations all
// share the visibility.ID space.
const registryJS = `
	window.__vpReg = window.__vpReg || { ids: new WeakMap(), nodes: [], next: 0 };
	window.__vpID = window.__vpID || function (n) {
		const reg = window.__vpReg;
		let id = reg.ids.get(n);
		if (id === undefined) {
			id = reg.next++;
			reg.ids.set(n, id);
			reg.nodes[id] = n;
		}
		return id;
	};
`

// snapshotJS returns the tracked elements with their bounding rects and
// the viewport size.
const snapshotJS = `(selector) => {` + registryJS + `
	const out = { width: window.innerWidth, height: window.innerHeight, elements: [] };
	for (const el of document.querySelectorAll(selector)) {
		const r = el.getBoundingClientRect();
		out.elements.push({ id: window.__vpID(el), left: r.left, top: r.top, width: r.width, height: r.height });
	}
	return out;
}`

// hitsJS resolves a batch of points. Each answer is the chain of node IDs
// from the topmost element up to <body>, or null when nothing is there.
const hitsJS = `(pts) => {` + registryJS + `
	return pts.map(([x, y]) => {
		let n = document.elementFromPoint(x, y);
		if (!n) {
			return null;
		}
		const chain = [];
		while (n && n !== document.documentElement) {
			chain.push(window.__vpID(n));
			n = n.parentElement;
		}
		return chain.length ? chain : null;
	});
}`

// annotateJS toggles the "inview" class and writes the percentage into the
// element's label (or the element itself when it has none).
const annotateJS = `(items) => {` + registryJS + `
	for (const [id, inView, text] of items) {
		const el = window.__vpReg.nodes[id];
		if (!el) {
			continue;
		}
		el.classList.toggle("inview", inView);
		const label = el.querySelector(".label") || el;
		label.textContent = text;
	}
	return items.length;
}`

// drainJS returns and clears the events recorded by the page client.
const drainJS = `() => {
	const s = window.__viewpeek;
	if (!s || !s.events) {
		return [];
	}
	const out = s.events;
	s.events = [];
	return out;
}`

// readyJS reports whether the page client has built its elements. Pages
// without the client are ready once loaded.
const readyJS = `() => !window.__viewpeek || window.__viewpeek.ready === true`

const scrollJS = `(dx, dy) => { window.scrollBy(dx, dy); return [window.scrollX, window.scrollY]; }`

package overlay

// The overlay's rendering surface is a single host element attached to
// document.body with a shadow root, so injected styles cannot leak into
// the host page or be overridden by it. All page-side bookkeeping lives
// under window.__fp; every user interaction is forwarded to Go over one
// runtime binding and decided there.

// surfaceScript creates the rendering surface and installs the shared
// document listeners: focus tracking, dropdown keyboard handling, the
// removal observer, and scroll/resize forwarding.
// Arguments: binding name (JSON string), repeated.
const surfaceScript = `
	(() => {
		if (window.__fp) return true;
		const emit = payload => {
			const fn = window[%s];
			if (fn) fn(JSON.stringify(payload));
		};

		const host = document.createElement('div');
		host.setAttribute('data-fp-surface', '');
		host.style.cssText = 'position:absolute;top:0;left:0;width:0;height:0;z-index:2147483647;';
		const root = host.attachShadow({ mode: 'closed' });

		const style = document.createElement('style');
		style.textContent = [
			'.fp-badge{position:absolute;width:18px;height:18px;border-radius:50%%;',
			'background:#4f6df5;color:#fff;font:bold 11px/18px sans-serif;text-align:center;',
			'cursor:pointer;box-shadow:0 1px 3px rgba(0,0,0,.35);user-select:none;}',
			'.fp-dropdown{position:absolute;min-width:220px;max-width:320px;background:#fff;',
			'border:1px solid #d0d4dc;border-radius:6px;box-shadow:0 4px 14px rgba(0,0,0,.18);',
			'font:13px/1.4 sans-serif;color:#1c2030;overflow:hidden;}',
			'.fp-header{padding:6px 10px;background:#f4f5f8;color:#5a6070;font-size:11px;',
			'text-transform:uppercase;letter-spacing:.04em;}',
			'.fp-row{display:flex;justify-content:space-between;align-items:center;',
			'padding:7px 10px;cursor:pointer;}',
			'.fp-row.fp-active{background:#e9edfd;}',
			'.fp-value{overflow:hidden;text-overflow:ellipsis;white-space:nowrap;margin-right:8px;}',
			'.fp-conf{flex:none;padding:1px 6px;border-radius:8px;font-size:10px;color:#fff;}',
			'.fp-conf-high{background:#2e9e5b;}',
			'.fp-conf-medium{background:#d9912c;}',
			'.fp-conf-low{background:#98a0ae;}',
			'.fp-toast{position:fixed;bottom:24px;right:24px;padding:10px 16px;background:#1c2030;',
			'color:#fff;border-radius:6px;font:13px sans-serif;opacity:0;',
			'transition:opacity .2s ease;}',
			'.fp-toast.fp-visible{opacity:1;}'
		].join('');
		root.appendChild(style);
		document.body.appendChild(host);

		const fp = {
			host: host,
			root: root,
			badges: new Map(),
			dropdown: null,
			openField: null,
			tracked: new Set(),
			outsideHandler: null,
			handlers: {}
		};
		window.__fp = fp;

		fp.handlers.focusin = e => {
			const id = e.target && e.target.getAttribute && e.target.getAttribute('data-fp-id');
			if (id && fp.tracked.has(id)) emit({ kind: 'focus', fieldId: id });
		};
		document.addEventListener('focusin', fp.handlers.focusin, true);

		fp.handlers.keydown = e => {
			if (!fp.openField) return;
			const id = e.target && e.target.getAttribute && e.target.getAttribute('data-fp-id');
			if (id !== fp.openField) return;
			if (['ArrowDown', 'ArrowUp', 'Enter', 'Escape'].includes(e.key)) {
				e.preventDefault();
				e.stopPropagation();
				emit({ kind: 'key', fieldId: fp.openField, key: e.key });
			}
		};
		document.addEventListener('keydown', fp.handlers.keydown, true);

		fp.handlers.viewport = () => emit({ kind: 'viewport' });
		window.addEventListener('scroll', fp.handlers.viewport, true);
		window.addEventListener('resize', fp.handlers.viewport);

		fp.removalObserver = new MutationObserver(muts => {
			if (!muts.some(m => m.removedNodes.length > 0)) return;
			for (const id of Array.from(fp.tracked)) {
				const el = document.querySelector('[data-fp-id=' + JSON.stringify(id) + ']');
				if (!el || !document.contains(el)) {
					fp.tracked.delete(id);
					emit({ kind: 'removed', fieldId: id });
				}
			}
		});
		fp.removalObserver.observe(document.body, { childList: true, subtree: true });

		return true;
	})()
`

// positionBadge places a badge at the top-right corner of its field's
// bounding box. Defined once on the page side and reused by add and
// reposition paths.
const badgeHelperScript = `
	(() => {
		if (!window.__fp || window.__fp.positionBadge) return true;
		window.__fp.positionBadge = (id, badge) => {
			const el = document.querySelector('[data-fp-id=' + JSON.stringify(id) + ']');
			if (!el) return;
			const rect = el.getBoundingClientRect();
			badge.style.left = (window.scrollX + rect.right - 9) + 'px';
			badge.style.top = (window.scrollY + rect.top - 9) + 'px';
		};
		return true;
	})()
`

// addBadgeScript attaches an indicator badge for one field.
// Arguments: binding name (JSON string), field id (JSON string).
const addBadgeScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return false;
		const id = %s;
		if (fp.badges.has(id)) return true;

		const badge = document.createElement('div');
		badge.className = 'fp-badge';
		badge.textContent = '+';
		badge.addEventListener('click', e => {
			e.preventDefault();
			e.stopPropagation();
			const fn = window[%s];
			if (fn) fn(JSON.stringify({ kind: 'badge', fieldId: id }));
		});
		fp.root.appendChild(badge);
		fp.badges.set(id, badge);
		fp.tracked.add(id);
		fp.positionBadge(id, badge);
		return true;
	})()
`

// removeBadgeScript removes one field's badge and stops tracking it.
// Arguments: field id (JSON string).
const removeBadgeScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return false;
		const id = %s;
		const badge = fp.badges.get(id);
		if (badge) badge.remove();
		fp.badges.delete(id);
		fp.tracked.delete(id);
		return true;
	})()
`

// openDropdownScript renders the suggestion dropdown for a field. The
// outside-interaction listener is installed one tick later so the click
// that opened the dropdown cannot immediately close it.
// Arguments: binding name (JSON string), field id (JSON string),
// items (JSON array of {value, tier, pct}), highlight index (int).
const openDropdownScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return false;
		const emit = payload => {
			const fn = window[%s];
			if (fn) fn(JSON.stringify(payload));
		};
		const id = %s;
		const items = %s;
		const highlight = %d;

		const el = document.querySelector('[data-fp-id=' + JSON.stringify(id) + ']');
		if (!el) return false;

		const dd = document.createElement('div');
		dd.className = 'fp-dropdown';
		const header = document.createElement('div');
		header.className = 'fp-header';
		header.textContent = 'Suggestions';
		dd.appendChild(header);

		items.forEach((item, i) => {
			const row = document.createElement('div');
			row.className = 'fp-row' + (i === highlight ? ' fp-active' : '');
			const value = document.createElement('span');
			value.className = 'fp-value';
			value.textContent = item.value;
			const conf = document.createElement('span');
			conf.className = 'fp-conf fp-conf-' + item.tier;
			conf.textContent = item.pct + '%%';
			row.appendChild(value);
			row.appendChild(conf);
			row.addEventListener('click', e => {
				e.preventDefault();
				e.stopPropagation();
				emit({ kind: 'select', fieldId: id, index: i });
			});
			dd.appendChild(row);
		});

		const rect = el.getBoundingClientRect();
		dd.style.left = (window.scrollX + rect.left) + 'px';
		dd.style.top = (window.scrollY + rect.bottom + 4) + 'px';

		fp.root.appendChild(dd);
		fp.dropdown = dd;
		fp.openField = id;

		setTimeout(() => {
			if (fp.openField !== id) return;
			fp.outsideHandler = e => {
				// The shadow root is closed, so from a document-level
				// listener the composed path retargets everything inside
				// it to the host. Testing for the dropdown node itself
				// would misread clicks on suggestion rows as outside.
				const path = e.composedPath ? e.composedPath() : [e.target];
				if (path.includes(fp.host) || path.includes(el)) return;
				emit({ kind: 'outside', fieldId: id });
			};
			document.addEventListener('click', fp.outsideHandler, true);
		}, 0);
		return true;
	})()
`

// closeDropdownScript tears down the open dropdown and its outside
// listener.
const closeDropdownScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return false;
		if (fp.dropdown) fp.dropdown.remove();
		fp.dropdown = null;
		fp.openField = null;
		if (fp.outsideHandler) {
			document.removeEventListener('click', fp.outsideHandler, true);
			fp.outsideHandler = null;
		}
		return true;
	})()
`

// highlightScript moves the active-row marker inside the open dropdown.
// Arguments: highlight index (int).
const highlightScript = `
	(() => {
		const fp = window.__fp;
		if (!fp || !fp.dropdown) return false;
		fp.dropdown.querySelectorAll('.fp-row').forEach((row, i) => {
			row.classList.toggle('fp-active', i === %d);
		});
		return true;
	})()
`

// repositionScript re-pins every badge and the open dropdown to their
// fields' current bounding boxes. One layout pass per invocation.
const repositionScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return false;
		for (const [id, badge] of fp.badges) {
			fp.positionBadge(id, badge);
		}
		if (fp.dropdown && fp.openField) {
			const el = document.querySelector('[data-fp-id=' + JSON.stringify(fp.openField) + ']');
			if (el) {
				const rect = el.getBoundingClientRect();
				fp.dropdown.style.left = (window.scrollX + rect.left) + 'px';
				fp.dropdown.style.top = (window.scrollY + rect.bottom + 4) + 'px';
			}
		}
		return true;
	})()
`

// showToastScript fades in a transient message; Go owns the dismissal
// timer. Arguments: toast id (int), message (JSON string).
const showToastScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return false;
		const toast = document.createElement('div');
		toast.className = 'fp-toast';
		toast.setAttribute('data-fp-toast', '%d');
		toast.textContent = %s;
		fp.root.appendChild(toast);
		requestAnimationFrame(() => toast.classList.add('fp-visible'));
		return true;
	})()
`

// removeToastScript fades out and removes one toast.
// Arguments: toast id (int).
const removeToastScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return false;
		const toast = fp.root.querySelector('[data-fp-toast="%d"]');
		if (!toast) return false;
		toast.classList.remove('fp-visible');
		setTimeout(() => toast.remove(), 250);
		return true;
	})()
`

// destroyScript removes the rendering surface and every shared listener.
const destroyScript = `
	(() => {
		const fp = window.__fp;
		if (!fp) return true;
		if (fp.outsideHandler) document.removeEventListener('click', fp.outsideHandler, true);
		document.removeEventListener('focusin', fp.handlers.focusin, true);
		document.removeEventListener('keydown', fp.handlers.keydown, true);
		window.removeEventListener('scroll', fp.handlers.viewport, true);
		window.removeEventListener('resize', fp.handlers.viewport);
		if (fp.removalObserver) fp.removalObserver.disconnect();
		fp.host.remove();
		delete window.__fp;
		return true;
	})()
`

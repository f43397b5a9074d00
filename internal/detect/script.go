package detect

// scanScript runs inside the page. It walks every input/textarea/select,
// applies the eligibility whitelist, the exclusion set, container and
// visibility filters, tags survivors with a stable generated id attribute,
// and returns their raw attributes plus label HTML fragments.
const scanScript = `
	(() => {
		const fillableInputTypes = new Set([
			'text', 'email', 'tel', 'date', 'number', 'search', 'url', ''
		]);
		const excludedInputTypes = new Set([
			'password', 'hidden', 'submit', 'button', 'reset',
			'file', 'image', 'checkbox', 'radio'
		]);

		if (typeof window.__fpSeq !== 'number') {
			window.__fpSeq = 0;
		}

		function isVisible(el) {
			const rect = el.getBoundingClientRect();
			if (rect.width === 0 || rect.height === 0) return false;
			const style = window.getComputedStyle(el);
			if (style.display === 'none') return false;
			if (style.visibility === 'hidden') return false;
			if (parseFloat(style.opacity) === 0) return false;
			return true;
		}

		function inIgnoredContainer(el) {
			if (el.closest('[data-fp-ignore]')) return true;
			// CAPTCHA widgets and their wrappers are never fill targets.
			if (el.closest('.g-recaptcha, .h-captcha, [class*="captcha"], [id*="captcha"]')) return true;
			return false;
		}

		function ariaHidden(el) {
			for (let node = el; node; node = node.parentElement) {
				if (node.getAttribute && node.getAttribute('aria-hidden') === 'true') return true;
			}
			return false;
		}

		function eligible(el) {
			const tag = el.tagName.toLowerCase();
			if (tag === 'input') {
				const type = (el.type || '').toLowerCase();
				if (excludedInputTypes.has(type)) return false;
				if (!fillableInputTypes.has(type)) return false;
			} else if (tag !== 'textarea' && tag !== 'select') {
				return false;
			}
			if (el.disabled || el.readOnly) return false;
			if (el.hasAttribute('data-fp-processed')) return false;
			if (ariaHidden(el)) return false;
			if (inIgnoredContainer(el)) return false;
			if (!isVisible(el)) return false;
			return true;
		}

		const fields = [];
		document.querySelectorAll('input, textarea, select').forEach(el => {
			if (!eligible(el)) return;

			if (!el.hasAttribute('data-fp-id')) {
				el.setAttribute('data-fp-id', 'fp-' + (++window.__fpSeq));
			}

			let labelForHtml = '';
			if (el.id) {
				const assoc = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
				if (assoc) labelForHtml = assoc.outerHTML;
			}
			let ancestorLabelHtml = '';
			const ancestor = el.closest('label');
			if (ancestor) ancestorLabelHtml = ancestor.outerHTML;

			const tag = el.tagName.toLowerCase();
			fields.push({
				id: el.getAttribute('data-fp-id'),
				tag: tag,
				type: tag === 'input' ? (el.type || '').toLowerCase() : '',
				name: el.name || '',
				elemId: el.id || '',
				placeholder: el.placeholder || '',
				ariaLabel: el.getAttribute('aria-label') || '',
				autocomplete: el.getAttribute('autocomplete') || '',
				value: el.value || '',
				required: !!el.required,
				labelForHtml: labelForHtml,
				ancestorLabelHtml: ancestorLabelHtml
			});
		});
		return fields;
	})()
`

// markProcessedScript flags a single field as handled so later scans skip
// it. Idempotent.
const markProcessedScript = `
	(() => {
		const el = document.querySelector('[data-fp-id=%s]');
		if (el) el.setAttribute('data-fp-processed', '1');
		return !!el;
	})()
`

// observeScript installs a MutationObserver that reports added nodes which
// are, or contain, candidate fields. It emits over the named binding; the
// Go side owns the quiet-period debounce. Removals alone are never
// reported.
const observeScript = `
	(() => {
		if (window.__fpObserver) return true;
		const observer = new MutationObserver(mutations => {
			let sawCandidate = false;
			for (const m of mutations) {
				for (const node of m.addedNodes) {
					if (node.nodeType !== Node.ELEMENT_NODE) continue;
					if (node.matches && node.matches('input, textarea, select')) {
						sawCandidate = true;
						break;
					}
					if (node.querySelector && node.querySelector('input, textarea, select')) {
						sawCandidate = true;
						break;
					}
				}
				if (sawCandidate) break;
			}
			if (sawCandidate && window['%s']) {
				window['%s']('added');
			}
		});
		observer.observe(document.body, { childList: true, subtree: true });
		window.__fpObserver = observer;
		return true;
	})()
`

// stopObserveScript disconnects the mutation observer installed by
// observeScript.
const stopObserveScript = `
	(() => {
		if (window.__fpObserver) {
			window.__fpObserver.disconnect();
			delete window.__fpObserver;
		}
		return true;
	})()
`

package fill

// setValueScript writes a value into a text-like element through the
// prototype value setter, bypassing any framework-installed getter/setter
// shadowing on the element itself, with a plain assignment fallback. After
// the write it focuses the element and dispatches bubbling input, change,
// and blur events; reactive frameworks listen for those rather than
// polling the raw value, so a bare assignment would be invisible to them.
// Arguments: field id (JSON string), value (JSON string).
const setValueScript = `
	(() => {
		const el = document.querySelector('[data-fp-id=' + JSON.stringify(%s) + ']');
		if (!el) return false;
		const value = %s;

		const proto = el.tagName === 'TEXTAREA'
			? window.HTMLTextAreaElement.prototype
			: window.HTMLInputElement.prototype;
		const desc = Object.getOwnPropertyDescriptor(proto, 'value');
		if (desc && desc.set) {
			desc.set.call(el, value);
		} else {
			el.value = value;
		}
		el.focus();

		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		el.dispatchEvent(new Event('blur', { bubbles: true }));
		return true;
	})()
`

// setValueGuardedScript is the bulk-fill variant of setValueScript: it
// re-checks the element's live content at write time and refuses when it
// is non-blank, so a value typed after detection is never overwritten.
// Returns 'filled', 'occupied', or 'missing'.
// Arguments: field id (JSON string), value (JSON string).
const setValueGuardedScript = `
	(() => {
		const el = document.querySelector('[data-fp-id=' + JSON.stringify(%s) + ']');
		if (!el) return 'missing';
		if (el.value && el.value.trim() !== '') return 'occupied';
		const value = %s;

		const proto = el.tagName === 'TEXTAREA'
			? window.HTMLTextAreaElement.prototype
			: window.HTMLInputElement.prototype;
		const desc = Object.getOwnPropertyDescriptor(proto, 'value');
		if (desc && desc.set) {
			desc.set.call(el, value);
		} else {
			el.value = value;
		}
		el.focus();

		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		el.dispatchEvent(new Event('blur', { bubbles: true }));
		return 'filled';
	})()
`

// readOptionsScript returns the {value, text} pairs of a select element.
// Arguments: field id (JSON string).
const readOptionsScript = `
	(() => {
		const el = document.querySelector('[data-fp-id=' + JSON.stringify(%s) + ']');
		if (!el || el.tagName !== 'SELECT') return [];
		return Array.from(el.options).map(o => ({ value: o.value, text: o.text }));
	})()
`

// setSelectScript selects an option by raw value on a select element and
// dispatches the same bubbling event sequence as text writes.
// Arguments: field id (JSON string), option value (JSON string).
const setSelectScript = `
	(() => {
		const el = document.querySelector('[data-fp-id=' + JSON.stringify(%s) + ']');
		if (!el) return false;
		el.value = %s;
		el.focus();
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		el.dispatchEvent(new Event('blur', { bubbles: true }));
		return true;
	})()
`

// setSelectGuardedScript is the bulk-fill variant of setSelectScript,
// refusing when the select already carries a non-blank selection.
// Returns 'filled', 'occupied', or 'missing'.
// Arguments: field id (JSON string), option value (JSON string).
const setSelectGuardedScript = `
	(() => {
		const el = document.querySelector('[data-fp-id=' + JSON.stringify(%s) + ']');
		if (!el) return 'missing';
		if (el.value && el.value.trim() !== '') return 'occupied';
		el.value = %s;
		el.focus();
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		el.dispatchEvent(new Event('blur', { bubbles: true }));
		return 'filled';
	})()
`

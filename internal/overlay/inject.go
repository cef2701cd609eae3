package overlay

import (
	"encoding/json"
	"fmt"
)

// injectJS takes a Descriptor as its only argument. It creates a
// fixed-position element and plays the entrance animation. Exit animations
// fade the element in and are stored on it for removeJS to play.
const injectJS = `(d) => {
	const el = document.createElement('div');
	el.id = d.id;
	el.setAttribute('data-demoreel-overlay', d.kind);
	Object.assign(el.style, {
		position: 'fixed',
		left: d.x + 'px',
		top: d.y + 'px',
		width: d.width + 'px',
		height: d.height + 'px',
		background: d.background,
		border: d.borderAccent,
		color: d.textColor,
		fontSize: d.fontSize + 'px',
		fontFamily: 'Inter, system-ui, -apple-system, sans-serif',
		fontWeight: d.kind === 'title' ? '700' : '500',
		borderRadius: d.kind === 'chip' || d.kind === 'badge' ? '999px' : '12px',
		boxSizing: 'border-box',
		display: 'flex',
		alignItems: 'center',
		justifyContent: 'center',
		textAlign: 'center',
		padding: '12px 20px',
		overflow: 'hidden',
		zIndex: '2147483646',
		pointerEvents: 'none',
		boxShadow: '0 10px 30px rgba(0,0,0,0.25)',
	});

	if (d.file) {
		const img = document.createElement('img');
		img.src = d.file;
		Object.assign(img.style, { maxWidth: '100%', maxHeight: '100%', objectFit: 'contain' });
		el.appendChild(img);
	} else if (d.text) {
		el.textContent = d.text;
	}

	const a = d.animation || {};
	const offsets = { left: 'translateX(-40px)', right: 'translateX(40px)', top: 'translateY(-40px)', bottom: 'translateY(40px)' };
	let from = { opacity: 0 };
	let to = { opacity: 1 };
	if (a.type === 'slide_in') {
		from = { opacity: 0, transform: offsets[a.from] || offsets.bottom };
		to = { opacity: 1, transform: 'none' };
	} else if (a.type === 'scale_in') {
		from = { opacity: 0, transform: 'scale(0.8)' };
		to = { opacity: 1, transform: 'scale(1)' };
	} else if (a.type === 'fade_out' || a.type === 'slide_out' || a.type === 'scale_out') {
		el.dataset.exit = a.type;
		el.dataset.exitFrom = a.from || '';
		el.dataset.exitMs = String(a.durationMs || 300);
	}

	document.body.appendChild(el);
	el.animate([from, to], { duration: a.durationMs || 300, easing: 'ease-out', fill: 'forwards' });
	return el.id;
}`

// removeJS plays the exit animation stored by injectJS, if any, and
// removes the element when it finishes.
const removeJS = `(id) => {
	const el = document.getElementById(id);
	if (!el) return false;
	const exit = el.dataset.exit;
	if (!exit || typeof el.animate !== 'function') {
		el.remove();
		return true;
	}
	el.removeAttribute('id');
	const offsets = { left: 'translateX(-40px)', right: 'translateX(40px)', top: 'translateY(-40px)', bottom: 'translateY(40px)' };
	let to = { opacity: 0 };
	if (exit === 'slide_out') {
		to = { opacity: 0, transform: offsets[el.dataset.exitFrom] || offsets.bottom };
	} else if (exit === 'scale_out') {
		to = { opacity: 0, transform: 'scale(0.8)' };
	}
	const from = to.transform ? { opacity: 1, transform: 'none' } : { opacity: 1 };
	const anim = el.animate([from, to], { duration: Number(el.dataset.exitMs) || 300, easing: 'ease-in', fill: 'forwards' });
	anim.onfinish = () => el.remove();
	anim.oncancel = () => el.remove();
	return true;
}`

// Script renders a zero-argument page function that injects d.
func (d Descriptor) Script() string {
	payload, err := json.Marshal(d)
	if err != nil {
		// Descriptor holds only strings and numbers.
		panic(fmt.Sprintf("overlay: marshal descriptor: %v", err))
	}
	return fmt.Sprintf("() => (%s)(%s)", injectJS, payload)
}

// RemoveScript renders a zero-argument page function that removes the
// overlay with the given id. It returns false when nothing was removed.
func RemoveScript(id string) string {
	quoted, _ := json.Marshal(id)
	return fmt.Sprintf("() => (%s)(%s)", removeJS, quoted)
}

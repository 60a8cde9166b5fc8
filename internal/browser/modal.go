package browser

import (
	"time"
)

// forceCloseScript hides overlay and dialog elements and clicks any visible
// close buttons. Last resort when the UI's own close paths are stuck.
const forceCloseScript = `(() => {
	document.querySelectorAll('[role="presentation"]').forEach(el => {
		el.style.display = 'none';
	});
	document.querySelectorAll('[role="dialog"]').forEach(el => {
		el.style.display = 'none';
	});
	document.querySelectorAll('button').forEach(btn => {
		if (btn.textContent.includes('Close') || btn.textContent.includes('×')) {
			btn.click();
		}
	});
})()`

// backdropClickScript dispatches a click on the modal backdrop
const backdropClickScript = `(() => {
	const backdrop = document.querySelector('[role="presentation"]');
	if (backdrop) {
		backdrop.dispatchEvent(new MouseEvent('click', { bubbles: true }));
	}
})()`

// ModalVisible reports whether a dialog or presentation overlay is open
func (s *Session) ModalVisible() bool {
	return s.Visible(`[role="dialog"]`, 500*time.Millisecond) ||
		s.Visible(`[role="presentation"]`, 500*time.Millisecond)
}

// CloseModal closes any open modal. Escalation order: Escape key, enabled
// close buttons, backdrop click, JS force close. Never returns an error; a
// modal that refuses to close is reported by the next interaction instead.
func (s *Session) CloseModal() {
	s.PressEscape()
	s.Sleep(500 * time.Millisecond)

	if !s.ModalVisible() {
		return
	}

	if _, err := s.ClickAny(
		`//button[contains(., "Close")][not(@disabled)]`,
		`button[aria-label="Close"]:not([disabled])`,
		`//button[contains(., "×")][not(@disabled)]`,
		`//button[contains(., "✕")][not(@disabled)]`,
	); err == nil {
		s.Sleep(500 * time.Millisecond)
		if !s.ModalVisible() {
			return
		}
	}

	s.Evaluate(backdropClickScript, nil)
	s.Sleep(500 * time.Millisecond)

	if s.ModalVisible() {
		s.ForceCloseModals()
	}
}

// ForceCloseModals force-hides all overlays via JavaScript
func (s *Session) ForceCloseModals() {
	if err := s.Evaluate(forceCloseScript, nil); err != nil {
		s.logger.Warn().Msgf("Force close modals failed: %v", err)
	}
	s.Sleep(500 * time.Millisecond)
}

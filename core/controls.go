package crane

// Stop cancels the current run and stops looping. No callback of the
// cancelled run fires afterwards when Stop is called on the host.
func (o *Overlay) Stop() {
	if o == nil {
		return
	}

	o.mu.Lock()
	o.playing = false
	current := o.current
	o.mu.Unlock()

	current.Cancel()
}

// Restart begins a new cycle on a fresh run, keeping the current schedule
// and callbacks. It does nothing unless the overlay is playing.
func (o *Overlay) Restart() error {
	if o == nil {
		return nil
	}

	o.mu.Lock()
	playing := o.playing && !o.closed
	o.mu.Unlock()

	if !playing {
		return nil
	}
	return o.restart()
}

// Close stops the overlay for good. Play and Replace fail afterwards.
func (o *Overlay) Close() {
	if o == nil {
		return
	}

	o.closeOnce.Do(func() {
		o.Stop()

		o.mu.Lock()
		o.closed = true
		if o.stopHook != nil {
			close(o.stopHook)
			o.stopHook = nil
		}
		o.mu.Unlock()
	})
}

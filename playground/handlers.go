package playground

import (
	"go.uber.org/zap"

	"github.com/wippyai/fmt-playground/format"
	"github.com/wippyai/fmt-playground/share"
)

// EditOriginal replaces the source text and formats it.
func (c *Controller) EditOriginal(text string) {
	rev := c.original.Revision()
	c.original.SetContent(text)
	if c.original.Revision() != rev {
		c.runFormat()
	}
}

// EditSettings replaces the settings text, validates it and formats when
// it is valid.
func (c *Controller) EditSettings(text string) {
	rev := c.settingsDoc.Revision()
	c.settingsDoc.SetContent(text)
	if c.settingsDoc.Revision() != rev {
		c.settingsChanged()
	}
}

func (c *Controller) settingsChanged() {
	if c.validate() == nil {
		c.runFormat()
	}
}

// SelectVersion loads version, in the background when a dispatcher is
// configured. The version selector is disabled until every pending load
// finished.
func (c *Controller) SelectVersion(version string) {
	if version == "" || c.closed {
		return
	}

	c.pendingLoads++
	c.host.VersionSelector.SetEnabled(false)
	c.logger.Debug("loading version", zap.String("version", version))

	ctx := c.ctx
	if c.inline {
		c.loadFinished(version, c.reg.Load(ctx, version))
		return
	}
	go func() {
		err := c.reg.Load(ctx, version)
		c.dispatch.Post(func() { c.loadFinished(version, err) })
	}()
}

func (c *Controller) loadFinished(version string, err error) {
	c.pendingLoads--
	c.metrics.observeLoad(err)

	if c.closed {
		c.closeLanded()
		return
	}

	if c.pendingLoads == 0 {
		sel := c.host.VersionSelector
		sel.SetEnabled(true)
		// The selector shows what is active, which after a failure or
		// out of order completions is not necessarily what was picked.
		sel.SetValue(c.ActiveVersion())
	}

	if err != nil {
		c.logger.Error("failed to load engine version",
			zap.String("version", version),
			zap.String("active", c.ActiveVersion()),
			zap.Error(err))
		return
	}

	c.settings.Reconcile()
	c.validate()
	c.runFormat()
}

// SelectSample loads a sample into the original document. "" empties it.
// The selector is reset so the same sample can be picked again.
func (c *Controller) SelectSample(name string) {
	if c.closed {
		return
	}
	c.host.SampleSelector.SetValue("")

	if name == "" {
		c.surface.ClearSample()
		return
	}

	c.pendingFetches++
	ctx := c.ctx
	if c.inline {
		text, err := c.samples.Fetch(ctx, name)
		c.sampleFetched(name, text, err)
		return
	}
	go func() {
		text, err := c.samples.Fetch(ctx, name)
		c.dispatch.Post(func() { c.sampleFetched(name, text, err) })
	}()
}

func (c *Controller) sampleFetched(name, text string, err error) {
	c.pendingFetches--
	if c.closed {
		return
	}
	if err != nil {
		c.logger.Warn("failed to load sample",
			zap.String("sample", name),
			zap.Error(err))
		return
	}
	c.surface.ShowSample(text)
}

// OpenSettings shows the settings dialog.
func (c *Controller) OpenSettings() {
	c.host.SettingsDialog.SetVisible(true)
}

// CloseSettings hides the settings dialog and formats, provided the
// settings are valid. It reports whether the dialog closed.
func (c *Controller) CloseSettings() bool {
	if !c.settings.Valid() {
		return false
	}
	c.host.SettingsDialog.SetVisible(false)
	c.runFormat()
	return true
}

// ResetSettings restores the active engine's default settings.
func (c *Controller) ResetSettings() {
	rev := c.settingsDoc.Revision()
	c.settings.Reset()
	if c.settingsDoc.Revision() != rev {
		c.settingsChanged()
	}
}

// ToggleView switches between side-by-side and diff.
func (c *Controller) ToggleView() {
	c.surface.Toggle()
}

// Share writes the session into the location and copies it to the
// clipboard. It returns the shared URL.
func (c *Controller) Share() (string, error) {
	state := share.State{
		Source:   c.original.Content(),
		Settings: c.settingsDoc.Content(),
		Version:  c.ActiveVersion(),
	}

	u := c.codec.Encode(c.host.Location.URL(), state)
	c.host.Location.Replace(u)
	link := u.String()

	if c.host.Clipboard == nil {
		return link, nil
	}
	if err := c.host.Clipboard.WriteText(link); err != nil {
		return link, err
	}
	c.logger.Debug("session shared", zap.Int("bytes", len(link)))
	return link, nil
}

func (c *Controller) validate() error {
	err := c.settings.Validate()
	c.metrics.observeValidation(err)
	return err
}

func (c *Controller) runFormat() format.Result {
	res := c.format.Run()
	c.observe(res)
	return res
}

func (c *Controller) observe(res format.Result) {
	c.metrics.observeFormat(res)
}

// CLAUDE:SUMMARY Intercepts and blocks flash-loop's configured resource types on Rod pages.
package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Canonical resource-type names used by LoopConfig.BlockResources and
// Config.ResourceBlocking: singular, matching the CDP resource-type
// strings themselves (rod's ctx.Request.Type()) rather than a plural UI
// label.
const (
	ResourceImage      = "image"
	ResourceFont       = "font"
	ResourceMedia      = "media"
	ResourceStylesheet = "stylesheet"
)

// applyResourceBlocking sets up request interception to block cfg's
// configured resource types, logging each block through cfg.Logger so a
// run's console/file output shows exactly what was skipped.
func applyResourceBlocking(page *rod.Page, cfg Config) error {
	blockSet := newBlockSet(cfg.ResourceBlocking)

	log := cfg.Logger
	router := page.HijackRequests()

	router.MustAdd("*", func(ctx *rod.Hijack) {
		resType := strings.ToLower(string(ctx.Request.Type()))

		if blockSet[resType] {
			log.Debug("browser: blocked resource", "type", resType, "url", ctx.Request.URL().String())
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	go router.Run()

	return nil
}

func newBlockSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[strings.ToLower(t)] = true
	}
	return set
}

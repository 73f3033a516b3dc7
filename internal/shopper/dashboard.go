package shopper

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/guiamercado/guiamercado-backend/internal/apiclient"
	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
)

const dashboardPriceLimit = 10

// Dashboard is the home page: recent prices, the selected supermarket and
// supermarkets nearest-first when the position is known.
type Dashboard struct {
	Selected     *supermarkets.SupermarketDTO
	Prices       []prices.PriceEntryDTO
	Supermarkets []geo.Ranked[supermarkets.SupermarketDTO]
	Location     geo.Location
}

func (a *App) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		recent  *prices.ListResult
		markets []supermarkets.SupermarketDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := a.api.Prices(gctx, apiclient.PriceQuery{Limit: dashboardPriceLimit})
		recent = res
		return err
	})
	g.Go(func() error {
		res, err := a.api.Supermarkets(gctx, nil)
		markets = res
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &Dashboard{
		Selected: a.selection.Get(),
		Location: a.locate(ctx),
	}
	if recent != nil {
		view.Prices = recent.Items
	}
	if view.Location.State == geo.StateReady {
		view.Supermarkets = geo.SortByDistance(view.Location.Point, markets)
	} else {
		view.Supermarkets = make([]geo.Ranked[supermarkets.SupermarketDTO], len(markets))
		for i, m := range markets {
			view.Supermarkets[i] = geo.Ranked[supermarkets.SupermarketDTO]{Item: m}
		}
	}

	a.renderDashboard(view)
	return view, nil
}

// locate reports progress to the log so a slow position source is visible.
func (a *App) locate(ctx context.Context) geo.Location {
	return geo.RequestLocation(ctx, a.locator, a.locationTimeout, func(loc geo.Location) {
		lctx := a.logg.WithField(ctx, "location_state", loc.State.String())
		if loc.Err != nil {
			a.logg.Warn(a.logg.WithField(lctx, "error", loc.Err.Error()), "location unavailable")
			return
		}
		a.logg.Debug(lctx, "location update")
	})
}

package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/resilience"
)

// owmMain is the "main" block shared by current and forecast payloads.
type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
}

type owmWeather struct {
	Description string `json:"description"`
}

type owmCurrent struct {
	Main    owmMain      `json:"main"`
	Weather []owmWeather `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecast struct {
	List []struct {
		DtTxt   string       `json:"dt_txt"`
		Main    owmMain      `json:"main"`
		Weather []owmWeather `json:"weather"`
	} `json:"list"`
}

func describe(ws []owmWeather) string {
	if len(ws) == 0 {
		return ""
	}
	return ws[0].Description
}

// Current implements Client.
func (c *owmClient) Current(ctx context.Context, at geo.Coordinate) (*Snapshot, error) {
	if c.apiKey == "" {
		fb := Fallback()
		return &fb, nil
	}

	var payload owmCurrent
	if err := c.get(ctx, "weather", at, nil, &payload); err != nil {
		return nil, eris.Wrap(err, "weather: current")
	}

	return &Snapshot{
		TempC:       payload.Main.Temp,
		HumidityPct: payload.Main.Humidity,
		Description: describe(payload.Weather),
		WindSpeedMS: payload.Wind.Speed,
		FeelsLikeC:  payload.Main.FeelsLike,
	}, nil
}

// Forecast implements Client.
func (c *owmClient) Forecast(ctx context.Context, at geo.Coordinate) ([]ForecastEntry, error) {
	if c.apiKey == "" {
		return FallbackForecast(), nil
	}

	var payload owmForecast
	extra := url.Values{"cnt": {strconv.Itoa(ForecastEntries)}}
	if err := c.get(ctx, "forecast", at, extra, &payload); err != nil {
		return nil, eris.Wrap(err, "weather: forecast")
	}

	items := payload.List
	if len(items) > ForecastEntries {
		items = items[:ForecastEntries]
	}
	out := make([]ForecastEntry, 0, len(items))
	for _, item := range items {
		out = append(out, ForecastEntry{
			Time:        item.DtTxt,
			TempC:       item.Main.Temp,
			HumidityPct: item.Main.Humidity,
			Description: describe(item.Weather),
		})
	}
	return out, nil
}

// Conditions implements Client.
func (c *owmClient) Conditions(ctx context.Context, at geo.Coordinate) (*Conditions, error) {
	var (
		current  *Snapshot
		forecast []ForecastEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = c.Current(gctx, at)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = c.Forecast(gctx, at)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cond := Summarize(*current, forecast)
	if cond.HeatwaveAlert {
		zap.L().Info("weather: heatwave expected",
			zap.Float64("current_c", cond.Current.TempC),
			zap.Float64("max_forecast_c", cond.MaxForecastTemp),
		)
	}
	return &cond, nil
}

// get calls an OWM endpoint with metric units and decodes the JSON body into
// out. Rate limiting applies per attempt.
func (c *owmClient) get(ctx context.Context, endpoint string, at geo.Coordinate, extra url.Values, out any) error {
	params := url.Values{
		"lat":   {strconv.FormatFloat(at.Lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(at.Lng, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	for k, v := range extra {
		params[k] = v
	}
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	body, err := resilience.Do(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "build request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "request")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			statusErr := eris.Errorf("%s returned status %d", endpoint, resp.StatusCode)
			if resilience.IsTransientStatus(resp.StatusCode) {
				return nil, resilience.Transient(statusErr, resp.StatusCode)
			}
			return nil, statusErr
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "parse response")
	}
	return nil
}

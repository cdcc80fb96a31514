package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"lintang/navigatorx/pkg/config"
	"lintang/navigatorx/pkg/costfunction"
	"lintang/navigatorx/pkg/engine/routingalgorithm"
	"lintang/navigatorx/pkg/osmparser"
	"lintang/navigatorx/pkg/protocol"
	"lintang/navigatorx/pkg/server/service"
	"lintang/navigatorx/pkg/snapping"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const roads = `V,1,53.5,-113.5
V,2,53.5,-113.25
V,3,53.75,-113.25
E,1,2,Jasper Avenue
E,2,1,Jasper Avenue
E,2,3,109 Street
E,3,2,109 Street
`

func testServer(t *testing.T) *sessionServer {
	t.Helper()
	network, err := osmparser.LoadCSV(strings.NewReader(roads), 100000)
	require.NoError(t, err)

	engine := routingalgorithm.NewPathEngine(network.Graph,
		costfunction.BuildCostMap(network.Graph, network.Attributes).Cost)
	nav := service.NewNavigationService(snapping.NewRTreeLocator(network.Attributes), engine,
		network.Attributes, 100000)

	cfg := config.Default()
	return &sessionServer{
		nav:     nav,
		opts:    protocol.DefaultOptions(),
		metrics: protocol.NewMetrics(prometheus.NewRegistry()),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:     cfg.Transport,
	}
}

func TestServeStream(t *testing.T) {
	s := testServer(t)
	var out bytes.Buffer
	in := strings.NewReader("R 5350010 -11350010 5374990 -11325010\nA\nA\nA\nE\nR 5350000 -11350000 5350000 -11325000\nA\nA\n")

	require.NoError(t, s.serveStream(context.Background(), in, &out, s.log))
	assert.Equal(t, "N 3\nW 5350000 -11350000\nW 5350000 -11325000\nW 5375000 -11325000\nE\n"+
		"N 2\nW 5350000 -11350000\nW 5350000 -11325000\nE\n", out.String())
}

func TestServeStreamBadEncoding(t *testing.T) {
	s := testServer(t)
	s.cfg.Encoding = "klingon"
	err := s.serveStream(context.Background(), strings.NewReader(""), io.Discard, s.log)
	assert.Error(t, err)
}

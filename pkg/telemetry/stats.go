package telemetry

import (
	"context"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.opentelemetry.io/otel/api/global"
	"go.opentelemetry.io/otel/api/metric"
	"go.opentelemetry.io/otel/api/unit"

	"github.com/cds-snc/payload-signer/pkg/signing"
)

func initSystemStatsObserver(stats *signing.Stats) {
	meter := global.Meter("payloadsigner")

	// Initialize the first CPU measurement so that a percentage will be calculated the next time this method is called
	getCPUPercentage()

	var memTotal metric.Int64ValueObserver
	var memUsedPercent metric.Float64ValueObserver
	var memUsed metric.Int64ValueObserver
	var memAvailable metric.Int64ValueObserver
	var cpuPercent metric.Float64ValueObserver
	var signaturesTotal metric.Int64ValueObserver
	var signatureFailuresTotal metric.Int64ValueObserver

	cb := metric.Must(meter).NewBatchObserver(func(_ context.Context, result metric.BatchObserverResult) {
		v, _ := mem.VirtualMemory()
		signed, failed := signingCounts(stats)
		result.Observe(nil,
			memTotal.Observation(int64(v.Total)),
			memUsedPercent.Observation(v.UsedPercent),
			memUsed.Observation(int64(v.Used)),
			memAvailable.Observation(int64(v.Available)),
			cpuPercent.Observation(getCPUPercentage()),
			signaturesTotal.Observation(signed),
			signatureFailuresTotal.Observation(failed),
		)
	})

	memTotal = cb.NewInt64ValueObserver("payloadsigner.system.memory.total",
		metric.WithDescription("Total amount of RAM on this system"),
		metric.WithUnit(unit.Bytes),
	)
	memUsedPercent = cb.NewFloat64ValueObserver("payloadsigner.system.memory.usedpercent",
		metric.WithDescription("Percentage of RAM used by programs"),
	)
	memUsed = cb.NewInt64ValueObserver("payloadsigner.system.memory.used",
		metric.WithDescription("RAM used by programs"),
		metric.WithUnit(unit.Bytes),
	)
	memAvailable = cb.NewInt64ValueObserver("payloadsigner.system.memory.free",
		metric.WithDescription("RAM available for programs to allocate"),
		metric.WithUnit(unit.Bytes),
	)
	cpuPercent = cb.NewFloat64ValueObserver("payloadsigner.system.cpu.percent",
		metric.WithDescription("Percentage of all CPUs combined"),
	)
	signaturesTotal = cb.NewInt64ValueObserver("payloadsigner.app.signatures.total",
		metric.WithDescription("Total number of payloads signed"),
	)
	signatureFailuresTotal = cb.NewInt64ValueObserver("payloadsigner.app.signature_failures.total",
		metric.WithDescription("Total number of failed signing attempts"),
	)
}

func signingCounts(stats *signing.Stats) (int64, int64) {
	if stats == nil {
		return 0, 0
	}
	return stats.Signed(), stats.Failed()
}

func getCPUPercentage() float64 {
	cpu, err := cpu.Percent(0, false)
	if err != nil || len(cpu) == 0 {
		return 0
	}
	return cpu[0]
}

package concurrent_test

import (
	"testing"

	"lintang/navigatorx/pkg/concurrent"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	t.Run("every job produces one result", func(t *testing.T) {
		jobs := 50
		workers := concurrent.NewWorkerPool[concurrent.Job[int], int](4, jobs)
		for i := 0; i < jobs; i++ {
			workers.AddJob(concurrent.Job[int]{ID: i, JobItem: i})
		}
		workers.Close()

		workers.Start(func(job concurrent.Job[int]) int {
			return job.JobItem * 2
		})
		workers.Wait()

		sum := 0
		count := 0
		for res := range workers.CollectResults() {
			sum += res
			count++
		}
		assert.Equal(t, jobs, count)
		assert.Equal(t, 2*(jobs*(jobs-1)/2), sum)
	})
}

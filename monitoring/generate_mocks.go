//go:generate mockgen -destination=mock_pagingservice_test.go -package=monitoring github.com/sarchlab/pagingsim/monitoring PagingService

package monitoring

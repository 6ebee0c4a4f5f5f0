package playback

import (
	"testing"
	"testing/synctest"
)

func TestNewSubscription_BatchesReadableInOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()
		stop := make(chan struct{})

		sub.send(Batch{ShowViewer{}}, stop)
		sub.send(Batch{HideViewer{}}, stop)

		first := <-sub.Instructions
		if _, ok := first[0].(ShowViewer); !ok {
			t.Errorf("first batch = %#v, want ShowViewer", first)
		}
		second := <-sub.Instructions
		if _, ok := second[0].(HideViewer); !ok {
			t.Errorf("second batch = %#v, want HideViewer", second)
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_Send_BlocksUntilStopWhenFull(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()
		stop := make(chan struct{})

		for range batchBufferSize {
			if !sub.send(Batch{ShowLoading{}}, stop) {
				t.Fatal("send into buffered subscription failed")
			}
		}

		result := make(chan bool, 1)
		go func() {
			result <- sub.send(Batch{HideLoading{}}, stop)
		}()

		synctest.Wait()
		select {
		case <-result:
			t.Fatal("send returned while buffer was full")
		default:
		}

		close(stop)
		if ok := <-result; ok {
			t.Error("send = true after stop, want false")
		}
	})
}

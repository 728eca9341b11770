package hue_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/phuey/internal/hue"
)

const light17URI = "/api/" + testUser + "/lights/17"

func newMockLight(t *testing.T) (*hue.Light, *mockSender) {
	client, sender := newMockClient(t)
	sender.On("Send", http.MethodGet, light17URI, nil).Return([]byte(light17), nil).Once()
	light, err := hue.NewLight(client, "17")
	require.NoError(t, err)
	return light, sender
}

func Test_Light_Set(t *testing.T) {

	t.Run("should send one state write to the bridge and cache it", func(t *testing.T) {
		t.Parallel()
		// arrange
		bridge := newFakeBridge(t, map[string]string{
			"GET /api/u/lights/17":       light17,
			"PUT /api/u/lights/17/state": `[{"success":{"/lights/17/state/sat":254}}]`,
		})
		light, err := hue.NewLight(bridge.client(t, "u"), "17")
		require.NoError(t, err)

		// act
		err = light.Set("sat", 254)

		// assert
		require.NoError(t, err)
		puts := bridge.recordedWith(http.MethodPut)
		require.Len(t, puts, 1)
		assert.Equal(t, "/api/u/lights/17/state", puts[0].Path)
		assert.Equal(t, "application/json", puts[0].ContentType)
		assert.JSONEq(t, `{"sat":254}`, puts[0].Body)

		sat, err := light.Get("sat")
		require.NoError(t, err)
		assert.Equal(t, 254, sat)
	})

	t.Run("should write the name to the light itself", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI, map[string]any{"name": "Reading lamp"}).Return([]byte(success), nil).Once()

		// act
		err := light.SetName("Reading lamp")

		// assert
		require.NoError(t, err)
		assert.Equal(t, "Reading lamp", light.Name())
	})

	t.Run("should send none when clearing a value", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI+"/state", map[string]any{"effect": "none"}).Return([]byte(success), nil).Once()

		// act
		err := light.Set("effect", nil)

		// assert
		require.NoError(t, err)
		effect, _ := light.Get("effect")
		assert.Equal(t, "none", effect)
	})

	t.Run("should refuse read-only and unknown attributes without a request", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)

		for _, name := range []string{"reachable", "light_id", "modelid", "bogus"} {
			// act
			err := light.Set(name, "x")

			// assert
			assert.ErrorIs(t, err, hue.ErrUnsupportedAttribute, name)
		}
		sender.AssertNumberOfCalls(t, "Send", 1)
		id, _ := light.Get("light_id")
		assert.Equal(t, "17", id)
	})

	t.Run("should refuse a mapping for a single state attribute", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)

		// act
		err := light.Set("on", map[string]any{"on": true, "bri": 10})

		// assert
		assert.ErrorIs(t, err, hue.ErrInvalidPayload)
		sender.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("should leave the cache untouched when the bridge rejects a write", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI+"/state", map[string]any{"bri": 300}).
			Return([]byte(`[{"error":{"type":7,"address":"/lights/17/state/bri","description":"invalid value, 300, for parameter, bri"}}]`), nil).Once()

		// act
		err := light.SetBrightness(300)

		// assert
		var bridgeErr *hue.BridgeError
		require.ErrorAs(t, err, &bridgeErr)
		assert.Equal(t, hue.ErrorTypeInvalidValue, bridgeErr.Type)
		bri, _ := light.Get("bri")
		assert.Equal(t, 120, bri)
	})

	t.Run("should leave the cache untouched when the transport fails", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI+"/state", map[string]any{"on": true}).
			Return(nil, hue.ErrConnectionRefused).Once()

		// act
		err := light.SetOn(true)

		// assert
		assert.ErrorIs(t, err, hue.ErrConnectionRefused)
		assert.False(t, light.IsOn())
	})

}

func Test_Light_State(t *testing.T) {

	t.Run("should write a state mapping in one request", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI+"/state", map[string]any{"on": true, "bri": 100}).Return([]byte(success), nil).Once()

		// act
		err := light.Set("state", hue.AttributeSet{"on": true, "bri": 100})

		// assert
		require.NoError(t, err)
		assert.True(t, light.IsOn())
		state, err := light.Get("state")
		require.NoError(t, err)
		assert.Equal(t, true, state.(map[string]any)["on"])
		assert.Equal(t, 100, state.(map[string]any)["bri"])
		assert.Equal(t, true, state.(map[string]any)["reachable"])
	})

	t.Run("should refuse empty and non-mapping state values", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)

		for _, value := range []any{nil, true, hue.AttributeSet{}, map[string]any{}, []any{1}} {
			// act
			err := light.Set("state", value)

			// assert
			assert.ErrorIs(t, err, hue.ErrInvalidPayload)
		}
		sender.AssertNumberOfCalls(t, "Send", 1)
	})

}

func Test_Light_Update(t *testing.T) {

	t.Run("should send several state attributes as a single request", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI+"/state", map[string]any{"on": true, "xy": []float64{0.2, 0.3}, "transitiontime": 4}).
			Return([]byte(success), nil).Once()

		// act
		err := light.Update(hue.AttributeSet{"on": true, "xy": []float64{0.2, 0.3}, "transitiontime": 4})

		// assert
		require.NoError(t, err)
		x, y, ok := light.XY()
		assert.True(t, ok)
		assert.Equal(t, 0.2, x)
		assert.Equal(t, 0.3, y)
	})

	t.Run("should route a single attribute like Set", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI, map[string]any{"name": "Hall"}).Return([]byte(success), nil).Once()

		// act
		err := light.Update(hue.AttributeSet{"name": "Hall"})

		// assert
		require.NoError(t, err)
		assert.Equal(t, "Hall", light.Name())
	})

	t.Run("should refuse attributes bound for different endpoints", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)

		// act
		err := light.Update(hue.AttributeSet{"name": "Hall", "bri": 10})

		// assert
		assert.ErrorIs(t, err, hue.ErrInvalidPayload)
		sender.AssertNumberOfCalls(t, "Send", 1)
		assert.Equal(t, "Desk lamp", light.Name())
	})

	t.Run("should refuse an empty update", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, _ := newMockLight(t)

		// act
		err := light.Update(hue.AttributeSet{})

		// assert
		assert.ErrorIs(t, err, hue.ErrInvalidPayload)
	})

}

func Test_Light_Get(t *testing.T) {

	t.Run("should read the light as the bridge reported it", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, _ := newMockLight(t)

		// assert
		assert.Equal(t, "17", light.ID())
		assert.Equal(t, hue.KindLight, light.Kind())
		assert.Equal(t, light17URI, light.URI())
		assert.Equal(t, "Desk lamp", light.Name())
		assert.True(t, light.Reachable())
		assert.False(t, light.IsOn())
		x, y, ok := light.XY()
		assert.True(t, ok)
		assert.Equal(t, 0.45, x)
		assert.Equal(t, 0.41, y)
		assert.Equal(t, "Light id: 17 name: Desk lamp currently on: false", light.String())
	})

	t.Run("should return the same value on repeated reads without a request", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)

		// act
		first, err1 := light.Get("bri")
		second, err2 := light.Get("bri")

		// assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
		sender.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("should fail for attributes the bridge never reported", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, _ := newMockLight(t)

		// act
		_, err := light.Get("bogus")

		// assert
		assert.ErrorIs(t, err, hue.ErrUnknownAttribute)
	})

	t.Run("should re-read the light on refresh", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodGet, light17URI, nil).Return([]byte(`{"state":{"on":true,"bri":1},"name":"Renamed"}`), nil).Once()

		// act
		err := light.Refresh()

		// assert
		require.NoError(t, err)
		assert.True(t, light.IsOn())
		assert.Equal(t, "Renamed", light.Name())
		_, err = light.Get("modelid")
		assert.ErrorIs(t, err, hue.ErrUnknownAttribute)
	})

	t.Run("should fail to build a light the bridge does not know", func(t *testing.T) {
		t.Parallel()
		// arrange
		client, sender := newMockClient(t)
		sender.On("Send", http.MethodGet, mock.Anything, nil).
			Return([]byte(`[{"error":{"type":3,"address":"/lights/99","description":"resource, /lights/99, not available"}}]`), nil).Once()

		// act
		light, err := hue.NewLight(client, "99")

		// assert
		assert.Nil(t, light)
		var bridgeErr *hue.BridgeError
		require.ErrorAs(t, err, &bridgeErr)
		assert.Equal(t, hue.ErrorTypeResourceNotAvailable, bridgeErr.Type)
	})

}

func Test_Light_Remove(t *testing.T) {

	t.Run("should delete the light", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodDelete, light17URI, nil).Return([]byte(`[{"success":"/lights/17 deleted"}]`), nil).Once()

		// act
		err := light.Remove()

		// assert
		assert.NoError(t, err)
	})

	t.Run("should fail when the bridge does not confirm", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodDelete, light17URI, nil).Return([]byte(`[]`), nil).Once()

		// act
		err := light.Remove()

		// assert
		var malformed *hue.MalformedResponseError
		assert.True(t, errors.As(err, &malformed))
	})

}

func Test_Light_StateBundleKeys(t *testing.T) {

	t.Run("should refuse identity and read-only keys in a state mapping", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)

		// act
		err := light.Set("state", hue.AttributeSet{"light_id": "99", "reachable": false})

		// assert
		assert.ErrorIs(t, err, hue.ErrUnsupportedAttribute)
		sender.AssertNumberOfCalls(t, "Send", 1)
		id, err := light.Get("light_id")
		require.NoError(t, err)
		assert.Equal(t, "17", id)
		assert.Equal(t, "17", light.ID())
		assert.True(t, light.Reachable())
	})

	t.Run("should refuse self attributes in a state mapping", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)

		// act
		err := light.Set("state", hue.AttributeSet{"on": true, "name": "Attic"})

		// assert
		assert.ErrorIs(t, err, hue.ErrUnsupportedAttribute)
		sender.AssertNumberOfCalls(t, "Send", 1)
		assert.Equal(t, "Desk lamp", light.Name())
	})

}

func Test_Light_PartialWrite(t *testing.T) {

	t.Run("should cache only the keys the bridge accepted", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		sender.On("Send", http.MethodPut, light17URI+"/state", map[string]any{"on": true, "bri": 300}).
			Return([]byte(`[
				{"success":{"/lights/17/state/on":true}},
				{"error":{"type":7,"address":"/lights/17/state/bri","description":"invalid value, 300, for parameter, bri"}}
			]`), nil).Once()

		// act
		err := light.Update(hue.AttributeSet{"on": true, "bri": 300})

		// assert
		var bridgeErr *hue.BridgeError
		require.ErrorAs(t, err, &bridgeErr)
		assert.Equal(t, hue.ErrorTypeInvalidValue, bridgeErr.Type)
		assert.Equal(t, "/lights/17/state/bri", bridgeErr.Address)
		assert.True(t, light.IsOn())
		bri, err := light.Get("bri")
		require.NoError(t, err)
		assert.Equal(t, 120, bri)
	})

}

func Test_Light_Copies(t *testing.T) {

	t.Run("should hand out copies of cached lists", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, _ := newMockLight(t)

		// act
		xy, err := light.Get("xy")
		require.NoError(t, err)
		xy.([]any)[0] = 9.9

		// assert
		again, err := light.Get("xy")
		require.NoError(t, err)
		assert.Equal(t, []any{0.45, 0.41}, again)
		assert.Equal(t, []any{0.45, 0.41}, light.Attributes()["xy"])
	})

	t.Run("should not keep the caller's list after a write", func(t *testing.T) {
		t.Parallel()
		// arrange
		light, sender := newMockLight(t)
		xy := []float64{0.2, 0.3}
		sender.On("Send", http.MethodPut, light17URI+"/state", map[string]any{"xy": []float64{0.2, 0.3}}).Return([]byte(success), nil).Once()
		require.NoError(t, light.Set("xy", xy))

		// act
		xy[0] = 0.9

		// assert
		x, _, ok := light.XY()
		assert.True(t, ok)
		assert.Equal(t, 0.2, x)
	})

}

package systems

import (
	"github.com/gonewx/snowglobe/pkg/components"
)

// ExtendedFingers computes which fingers are extended in a hand frame.
// A finger is extended when its tip is above its PIP joint in image space
// (smaller Y). The thumb compares its tip against the IP joint.
// Incomplete frames report every finger as flexed.
func ExtendedFingers(frame *components.HandFrame) components.FingerStates {
	if !frame.IsComplete() {
		return components.FingerStates{}
	}
	lm := frame.Landmarks
	above := func(tip, joint int) bool {
		return lm[tip].Y < lm[joint].Y
	}
	return components.FingerStates{
		Thumb:  above(components.LandmarkThumbTip, components.LandmarkThumbIP),
		Index:  above(components.LandmarkIndexTip, components.LandmarkIndexPIP),
		Middle: above(components.LandmarkMiddleTip, components.LandmarkMiddlePIP),
		Ring:   above(components.LandmarkRingTip, components.LandmarkRingPIP),
		Pinky:  above(components.LandmarkPinkyTip, components.LandmarkPinkyPIP),
	}
}

// ClassifyGesture maps one hand frame to a discrete gesture.
//
// Rules, first match wins:
//  1. index and middle extended, ring and pinky flexed → Victory
//  2. no non-thumb finger extended → Fist
//  3. anything else → OpenHand
//
// A nil frame, or one with fewer than 21 landmarks, is GestureNone.
// The thumb state does not take part in classification.
func ClassifyGesture(frame *components.HandFrame) components.Gesture {
	if !frame.IsComplete() {
		return components.Gesture{Kind: components.GestureNone}
	}

	f := ExtendedFingers(frame)
	wristX := frame.Landmarks[components.LandmarkWrist].X

	if f.Index && f.Middle && !f.Ring && !f.Pinky {
		return components.Gesture{Kind: components.GestureVictory, X: wristX}
	}
	if !f.Index && !f.Middle && !f.Ring && !f.Pinky {
		return components.Gesture{Kind: components.GestureFist}
	}
	return components.Gesture{Kind: components.GestureOpenHand, X: wristX}
}

// DescribeGesture returns the status line shown for a classified gesture.
// handPresent distinguishes "no hand" from an observation that could not be used.
// Fist and Victory return "": their text belongs to the trigger, see DescribeEvent.
func DescribeGesture(g components.Gesture, handPresent bool) string {
	switch g.Kind {
	case components.GestureVictory, components.GestureFist:
		return ""
	case components.GestureOpenHand:
		handX := 1 - g.X
		switch {
		case handX < zoomInThreshold:
			return "Hand on Left - Zooming In"
		case handX > zoomOutThreshold:
			return "Hand on Right - Zooming Out"
		default:
			return "Hand in center - Move left/right or make fist!"
		}
	}
	if handPresent {
		return "Hand detected - Open hand or make fist!"
	}
	return "No hand detected"
}

// DescribeEvent returns the status line for a trigger that fired this tick.
func DescribeEvent(e MotionEvent) string {
	switch e {
	case MotionEventFirework:
		return "Fist - Fireworks!"
	case MotionEventMerryChristmas:
		return "Victory - Merry Christmas!"
	}
	return ""
}

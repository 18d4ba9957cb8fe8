package scrambler

// --- Reserved GDScript Keywords and Constructs ---
// These must never be renamed. Matching is case-sensitive: GDScript is a
// case-sensitive language.
var reservedKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"match": true, "break": true, "continue": true, "pass": true,
	"return": true, "class": true, "class_name": true, "extends": true,
	"is": true, "as": true, "in": true, "not": true, "and": true,
	"or": true, "self": true, "tool": true, "signal": true, "static": true,
	"const": true, "enum": true, "var": true, "onready": true,
	"export": true, "setget": true, "breakpoint": true, "preload": true,
	"yield": true, "await": true, "assert": true, "void": true,
	"func": true, "super": true,
	"true": true, "false": true, "null": true,
	"PI": true, "TAU": true, "INF": true, "NAN": true,
	// Networking role modifiers
	"remote": true, "master": true, "puppet": true, "remotesync": true,
	"mastersync": true, "puppetsync": true, "sync": true, "rpc": true,
}

// --- Built-in value and container types ---
var reservedTypes = map[string]bool{
	"bool": true, "int": true, "float": true, "String": true,
	"Vector2": true, "Vector3": true, "Rect2": true, "Transform2D": true,
	"Plane": true, "Quat": true, "AABB": true, "Basis": true,
	"Transform": true, "Color": true, "NodePath": true, "RID": true,
	"Array": true, "Dictionary": true,
	"PoolByteArray": true, "PoolIntArray": true, "PoolRealArray": true,
	"PoolStringArray": true, "PoolVector2Array": true,
	"PoolVector3Array": true, "PoolColorArray": true,
}

// --- Engine classes commonly referenced from scripts ---
// The authoritative list comes from the engine's ClassDB; this seed covers
// the core hierarchy plus classes a typical project touches. Projects can
// extend it through ignore_names or the keep directive.
var reservedClasses = map[string]bool{
	"Object": true, "Reference": true, "Resource": true, "Node": true,
	"Node2D": true, "Spatial": true, "Control": true, "CanvasItem": true,
	"CanvasLayer": true, "Viewport": true, "SceneTree": true,
	"PackedScene": true, "Script": true, "GDScript": true,
	"Sprite": true, "Sprite3D": true, "AnimatedSprite": true,
	"Area2D": true, "Area": true, "KinematicBody": true,
	"KinematicBody2D": true, "RigidBody": true, "RigidBody2D": true,
	"StaticBody": true, "StaticBody2D": true, "CollisionShape": true,
	"CollisionShape2D": true, "CollisionPolygon2D": true,
	"RayCast": true, "RayCast2D": true, "Camera": true, "Camera2D": true,
	"Timer": true, "Tween": true, "AnimationPlayer": true,
	"AudioStreamPlayer": true, "AudioStreamPlayer2D": true,
	"AudioStreamPlayer3D": true, "Label": true, "RichTextLabel": true,
	"Button": true, "TextureButton": true, "TextureRect": true,
	"ColorRect": true, "Panel": true, "PanelContainer": true,
	"MarginContainer": true, "VBoxContainer": true, "HBoxContainer": true,
	"GridContainer": true, "CenterContainer": true, "ScrollContainer": true,
	"LineEdit": true, "TextEdit": true, "ItemList": true, "OptionButton": true,
	"CheckBox": true, "CheckButton": true, "HSlider": true, "VSlider": true,
	"ProgressBar": true, "TextureProgress": true, "NinePatchRect": true,
	"TileMap": true, "TileSet": true, "Particles": true, "Particles2D": true,
	"Light2D": true, "DirectionalLight": true, "OmniLight": true,
	"SpotLight": true, "MeshInstance": true, "Mesh": true, "ArrayMesh": true,
	"Texture": true, "ImageTexture": true, "Image": true, "Font": true,
	"DynamicFont": true, "Theme": true, "StyleBox": true,
	"StyleBoxFlat": true, "Shader": true, "ShaderMaterial": true,
	"SpatialMaterial": true, "Environment": true, "World": true,
	"World2D": true, "Physics2DDirectSpaceState": true,
	"PhysicsDirectSpaceState": true, "RegEx": true, "RegExMatch": true,
	"File": true, "Directory": true, "Mutex": true, "Thread": true,
	"Semaphore": true, "HTTPClient": true, "HTTPRequest": true,
	"JSONParseResult": true, "ConfigFile": true, "Expression": true,
	"RandomNumberGenerator": true, "StreamPeer": true, "StreamPeerTCP": true,
	"TCP_Server": true, "PacketPeerUDP": true, "WebSocketClient": true,
	// Global singletons
	"OS": true, "Input": true, "InputMap": true, "Engine": true,
	"ProjectSettings": true, "ResourceLoader": true, "ResourceSaver": true,
	"Performance": true, "JSON": true, "Marshalls": true, "ClassDB": true,
	"Geometry": true, "Physics2DServer": true, "PhysicsServer": true,
	"VisualServer": true, "AudioServer": true, "TranslationServer": true,
	"InputEvent": true, "InputEventKey": true, "InputEventMouseButton": true,
	"InputEventMouseMotion": true, "InputEventAction": true,
	"InputEventScreenTouch": true,
}

// --- Global scope functions ---
var reservedFunctions = map[string]bool{
	"print": true, "printt": true, "prints": true, "printerr": true,
	"printraw": true, "print_debug": true, "push_error": true,
	"push_warning": true, "load": true, "str": true, "len": true,
	"range": true, "abs": true, "sign": true, "min": true, "max": true,
	"clamp": true, "lerp": true, "inverse_lerp": true, "lerp_angle": true,
	"floor": true, "ceil": true, "round": true, "sqrt": true, "pow": true,
	"exp": true, "log": true, "sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true, "atan2": true,
	"deg2rad": true, "rad2deg": true, "fmod": true, "fposmod": true,
	"posmod": true, "stepify": true, "is_nan": true, "is_inf": true,
	"is_equal_approx": true, "is_zero_approx": true,
	"randf": true, "randi": true, "randomize": true, "rand_range": true,
	"rand_seed": true, "seed": true, "randfn": true,
	"typeof": true, "str2var": true, "var2str": true, "var2bytes": true,
	"bytes2var": true, "hash": true, "instance_from_id": true,
	"is_instance_valid": true, "weakref": true, "funcref": true,
	"convert": true, "char": true, "ord": true, "parse_json": true,
	"to_json": true, "validate_json": true, "dict2inst": true,
	"inst2dict": true, "get_stack": true, "print_stack": true,
	"tr": true, "wrapf": true, "wrapi": true, "nearest_po2": true,
	"smoothstep": true, "move_toward": true, "ease": true, "db2linear": true,
	"linear2db": true, "dectime": true, "cartesian2polar": true,
	"polar2cartesian": true,
}

// --- Virtual callbacks resolved by the engine by exact name ---
var reservedCallbacks = map[string]bool{
	"_init": true, "_ready": true, "_process": true,
	"_physics_process": true, "_enter_tree": true, "_exit_tree": true,
	"_input": true, "_unhandled_input": true, "_unhandled_key_input": true,
	"_gui_input": true, "_draw": true, "_notification": true,
	"_get": true, "_set": true, "_get_property_list": true,
	"_to_string": true, "_get_configuration_warning": true,
	"_integrate_forces": true, "_input_event": true,
	"_drop_data": true, "_can_drop_data": true, "_get_drag_data": true,
	"_make_custom_tooltip": true, "_clips_input": true,
	"_exit_game": true, "_post_import": true,
}

// --- Object/Node API members resolved by the engine by exact name ---
// Renaming these would break dynamic dispatch and scene bindings.
var reservedMembers = map[string]bool{
	"get_node": true, "get_node_or_null": true, "has_node": true,
	"find_node": true, "add_child": true, "remove_child": true,
	"get_parent": true, "get_children": true, "get_child": true,
	"get_child_count": true, "queue_free": true, "free": true,
	"duplicate": true, "get_tree": true, "get_path": true,
	"get_path_to": true, "is_inside_tree": true, "add_to_group": true,
	"remove_from_group": true, "is_in_group": true, "set_process": true,
	"set_physics_process": true, "set_process_input": true,
	"connect": true, "disconnect": true, "is_connected": true,
	"emit_signal": true, "call": true, "callv": true, "call_deferred": true,
	"set_deferred": true, "has_method": true, "get_class": true,
	"is_class": true, "get_instance_id": true, "set_meta": true,
	"get_meta": true, "has_meta": true, "instance": true,
	"instantiate": true, "new": true, "set_owner": true,
	"name": true, "owner": true, "filename": true, "pause_mode": true,
	"position": true, "global_position": true, "rotation": true,
	"rotation_degrees": true, "global_rotation": true, "scale": true,
	"global_scale": true, "transform": true, "global_transform": true,
	"translation": true, "visible": true, "modulate": true,
	"self_modulate": true, "z_index": true, "texture": true,
	"text": true, "bbcode_text": true, "pressed": true, "disabled": true,
	"rect_position": true, "rect_size": true, "rect_min_size": true,
	"anchor_left": true, "anchor_right": true, "anchor_top": true,
	"anchor_bottom": true, "margin_left": true, "margin_right": true,
	"mouse_filter": true, "focus_mode": true, "size_flags_horizontal": true,
	"size_flags_vertical": true, "one_shot": true, "wait_time": true,
	"autostart": true, "playing": true, "stream": true, "volume_db": true,
	"start": true, "stop": true, "play": true, "seek": true,
	"is_playing": true, "get_overlapping_bodies": true,
	"get_overlapping_areas": true, "move_and_slide": true,
	"move_and_collide": true, "is_on_floor": true, "is_on_wall": true,
	"is_on_ceiling": true, "apply_impulse": true, "linear_velocity": true,
	"angular_velocity": true, "gravity_scale": true,
	"is_colliding": true, "get_collider": true, "get_collision_point": true,
	"get_collision_normal": true, "force_raycast_update": true,
	"change_scene": true, "change_scene_to": true, "reload_current_scene": true,
	"current_scene": true, "paused": true, "create_timer": true,
	"get_nodes_in_group": true, "call_group": true, "quit": true,
	"set_pause": true, "get_delta": true, "get_frames_per_second": true,
	"is_action_pressed": true, "is_action_just_pressed": true,
	"is_action_just_released": true, "get_action_strength": true,
	"get_axis": true, "get_vector": true, "keycode": true, "scancode": true,
	"pressure": true, "relative": true, "button_index": true,
	"length": true, "length_squared": true, "normalized": true,
	"distance_to": true, "direction_to": true, "angle_to": true,
	"dot": true, "cross": true, "linear_interpolate": true, "rotated": true,
	"bounce": true, "slide": true, "clamped": true, "snapped": true,
	"abs": true, "x": true, "y": true, "z": true, "w": true,
	"r": true, "g": true, "b": true, "a": true,
	"size": true, "resize": true, "append": true, "append_array": true,
	"push_back": true, "push_front": true, "pop_back": true,
	"pop_front": true, "insert": true, "remove": true, "erase": true,
	"clear": true, "has": true, "keys": true, "values": true, "get": true,
	"set": true, "find": true, "rfind": true, "count": true, "sort": true,
	"sort_custom": true, "shuffle": true, "invert": true, "front": true,
	"back": true, "empty": true, "hash": true, "min": true, "max": true,
	"split": true, "join": true, "begins_with": true, "ends_with": true,
	"to_lower": true, "to_upper": true, "strip_edges": true,
	"replace": true, "substr": true, "left": true, "right": true,
	"pad_zeros": true, "pad_decimals": true, "capitalize": true,
	"to_int": true, "to_float": true, "is_valid_integer": true,
	"is_valid_float": true, "percent_encode": true, "http_escape": true,
	"get_string": true, "get_start": true, "get_end": true,
	"get_group_count": true, "strings": true,
}

// IsReserved checks if a name is engine-reserved and must survive
// renaming.
func IsReserved(name string) bool {
	return reservedKeywords[name] ||
		reservedTypes[name] ||
		reservedClasses[name] ||
		reservedFunctions[name] ||
		reservedCallbacks[name] ||
		reservedMembers[name]
}

// Reserved returns every engine-reserved name, for seeding the run-wide
// banned registry.
func Reserved() []string {
	size := len(reservedKeywords) + len(reservedTypes) + len(reservedClasses) +
		len(reservedFunctions) + len(reservedCallbacks) + len(reservedMembers)
	names := make([]string, 0, size)
	for _, m := range []map[string]bool{
		reservedKeywords, reservedTypes, reservedClasses,
		reservedFunctions, reservedCallbacks, reservedMembers,
	} {
		for name := range m {
			names = append(names, name)
		}
	}
	return names
}
